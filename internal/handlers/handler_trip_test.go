package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TripService ---
type MockTripService struct {
	mock.Mock
}

func (m *MockTripService) ListTrips(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockTripService) Rebuild(ctx context.Context, name string) (*domain.Trip, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripService) GetExisting(ctx context.Context, name string) (*domain.Trip, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripService) RawJournal(ctx context.Context, name string) ([]string, []int, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]string), args.Get(1).([]int), args.Error(2)
}
func (m *MockTripService) ApplyCommand(ctx context.Context, name string, cmd domain.Command) (*domain.Trip, error) {
	args := m.Called(ctx, name, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripService) AppendCommand(ctx context.Context, name string, rawLine string) (*domain.Trip, error) {
	args := m.Called(ctx, name, rawLine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.TripSvcFacade = (*MockTripService)(nil)

// --- Test Suite ---
type TripHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockTripService *MockTripService
	jwtSecret       string
}

func (suite *TripHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "trip-planner-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TripHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockTripService = new(MockTripService)
	v1 := suite.router.Group("/api/v1")
	registerTripRoutes(v1, suite.mockTripService)
}

func (suite *TripHandlerTestSuite) doRequest(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TripHandlerTestSuite) TestCreateTrip_Success() {
	trip := domain.NewTrip("kyoto", "trip-kyoto")
	suite.mockTripService.On("AppendCommand",
		mock.Anything, "kyoto", `create kyoto`,
	).Return(trip, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trips", dto.CreateTripRequest{Name: "kyoto"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TripResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("kyoto", resp.Name)
	suite.Equal("trip-kyoto", resp.ID)
	suite.mockTripService.AssertExpectations(suite.T())
}

func (suite *TripHandlerTestSuite) TestCreateTrip_Duplicate() {
	suite.mockTripService.On("AppendCommand",
		mock.Anything, "kyoto", mock.Anything,
	).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trips", dto.CreateTripRequest{Name: "kyoto"})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TripHandlerTestSuite) TestCreateTrip_RejectsBadName() {
	w := suite.doRequest(http.MethodPost, "/api/v1/trips", dto.CreateTripRequest{Name: "has spaces"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTripService.AssertNotCalled(suite.T(), "AppendCommand", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TripHandlerTestSuite) TestListTrips_Success() {
	suite.mockTripService.On("ListTrips", mock.Anything).Return([]string{"kyoto", "osaka"}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/trips", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string][]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"kyoto", "osaka"}, resp["trips"])
}

func (suite *TripHandlerTestSuite) TestGetTrip_NotFound() {
	suite.mockTripService.On("Rebuild", mock.Anything, "nowhere").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/trips/nowhere", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TripHandlerTestSuite) TestApplyCommand_Success() {
	trip := domain.NewTrip("kyoto", "trip-kyoto")
	line := "add uid=a1 name=Dinner date=2026-04-01"
	suite.mockTripService.On("AppendCommand", mock.Anything, "kyoto", line).Return(trip, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trips/kyoto/commands", dto.CommandRequest{Line: line})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TripHandlerTestSuite) TestApplyCommand_ParseError() {
	suite.mockTripService.On("AppendCommand", mock.Anything, "kyoto", "frobnicate").
		Return(nil, fmt.Errorf("%w: unknown command 'frobnicate'", apperrors.ErrParse)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trips/kyoto/commands", dto.CommandRequest{Line: "frobnicate"})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Error, "unknown command")
}

func (suite *TripHandlerTestSuite) TestAddActivity_EncodesCommandLine() {
	trip := domain.NewTrip("kyoto", "trip-kyoto")
	suite.mockTripService.On("AppendCommand",
		mock.Anything, "kyoto",
		mock.MatchedBy(func(line string) bool {
			return strings.HasPrefix(line, "add uid=") &&
				strings.Contains(line, `name="Dinner at Kikunoi"`) &&
				strings.Contains(line, "date=2026-04-01")
		}),
	).Return(trip, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trips/kyoto/activities", dto.AddActivityRequest{
		Name: "Dinner at Kikunoi",
		Date: "2026-04-01",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTripService.AssertExpectations(suite.T())
}

func (suite *TripHandlerTestSuite) TestRequestWithoutToken_IsUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTripService.AssertNotCalled(suite.T(), "ListTrips", mock.Anything)
}

// --- Run Test Suite ---
func TestTripHandler(t *testing.T) {
	suite.Run(t, new(TripHandlerTestSuite))
}
