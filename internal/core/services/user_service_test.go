package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/core/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	req := dto.CreateUserRequest{
		Username: "maya",
		Name:     "Maya",
		Password: "correct horse battery",
	}

	suite.mockRepo.On("FindUserByUsername", ctx, "maya").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "maya" &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("maya", user.Username)
	suite.NotEmpty(user.UserID)
	suite.NotEqual(req.Password, user.PasswordHash)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateUsername() {
	ctx := context.Background()
	existing := &domain.User{UserID: "u1", Username: "maya"}

	suite.mockRepo.On("FindUserByUsername", ctx, "maya").Return(existing, nil).Once()

	_, err := suite.service.CreateUser(ctx, dto.CreateUserRequest{Username: "maya", Password: "irrelevant1"})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_ExistingBySubject() {
	ctx := context.Background()
	existing := domain.User{UserID: "u1", Username: "maya", GoogleID: "goog-123"}

	suite.mockRepo.On("ListUsers", ctx).Return([]domain.User{existing}, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: "goog-123", Email: "maya@example.com"})

	suite.Require().NoError(err)
	suite.Equal("u1", user.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_LinksByEmail() {
	ctx := context.Background()
	existing := domain.User{UserID: "u1", Username: "maya", Email: "Maya@Example.com"}

	suite.mockRepo.On("ListUsers", ctx).Return([]domain.User{existing}, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "u1" && u.GoogleID == "goog-123"
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: "goog-123", Email: "maya@example.com"})

	suite.Require().NoError(err)
	suite.Equal("goog-123", user.GoogleID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesNew() {
	ctx := context.Background()

	suite.mockRepo.On("ListUsers", ctx).Return([]domain.User{}, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.GoogleID == "goog-123" && u.Email == "maya@example.com" && u.Username != ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, domain.GoogleUserInfo{ID: "goog-123", Email: "maya@example.com", Name: "Maya"})

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal("Maya", user.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_RequiresSubject() {
	_, err := suite.service.FindOrCreateGoogleUser(context.Background(), domain.GoogleUserInfo{Email: "maya@example.com"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestStoreRefreshTokenHash() {
	ctx := context.Background()
	expiry := time.Now().Add(time.Hour)
	existing := &domain.User{UserID: "u1", Username: "maya"}

	suite.mockRepo.On("FindUserByID", ctx, "u1").Return(existing, nil).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.RefreshTokenHash == "hashed" && u.RefreshTokenExpiryTime != nil && u.RefreshTokenExpiryTime.Equal(expiry)
	})).Return(nil).Once()

	err := suite.service.StoreRefreshTokenHash(ctx, "u1", "hashed", expiry)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
