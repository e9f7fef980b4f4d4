package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	"github.com/planloop/trip_planner_app/internal/core/domain"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tripHandler handles HTTP requests related to trips.
type tripHandler struct {
	tripService portssvc.TripSvcFacade
}

// newTripHandler creates a new tripHandler.
func newTripHandler(ts portssvc.TripSvcFacade) *tripHandler {
	return &tripHandler{
		tripService: ts,
	}
}

// registerTripRoutes registers all trip-related routes.
func registerTripRoutes(rg *gin.RouterGroup, tripService portssvc.TripSvcFacade) {
	h := newTripHandler(tripService)

	trips := rg.Group("/trips")
	{
		trips.POST("", h.createTrip)
		trips.GET("", h.listTrips)
		trips.GET("/:name", h.getTrip)
		trips.POST("/:name/commands", h.applyCommand)
		trips.POST("/:name/activities", h.addActivity)
	}
}

// createTrip godoc
// @Summary Create a new trip
// @Description Starts a new trip journal with a create command as its first line
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   trip body dto.CreateTripRequest true "Trip details"
// @Success 201 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Trip already exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips [post]
func (h *tripHandler) createTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	line := domain.CreateTrip{Name: req.Name}.Encode()
	trip, err := h.tripService.AppendCommand(c.Request.Context(), req.Name, line)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Trip already exists"})
			return
		}
		logger.Error("Failed to create trip", slog.String("trip", req.Name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create trip"})
		return
	}

	logger.Info("Trip created", slog.String("trip", req.Name))
	c.JSON(http.StatusCreated, dto.ToTripResponse(trip))
}

// listTrips godoc
// @Summary List trips
// @Description Lists the names of every trip with a journal
// @Tags trips
// @Produce  json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips [get]
func (h *tripHandler) listTrips(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	names, err := h.tripService.ListTrips(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list trips", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trips": names})
}

// getTrip godoc
// @Summary Get a trip snapshot
// @Description Replays the trip's journal and returns the current snapshot
// @Tags trips
// @Produce  json
// @Param   name path string true "Trip name"
// @Success 200 {object} dto.TripResponse
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{name} [get]
func (h *tripHandler) getTrip(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	trip, err := h.tripService.Rebuild(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
			return
		}
		logger.Error("Failed to rebuild trip", slog.String("trip", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load trip"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// applyCommand godoc
// @Summary Apply a command line to a trip
// @Description Parses, journals and applies one raw command line, returning the refreshed snapshot
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   name path string true "Trip name"
// @Param   command body dto.CommandRequest true "Raw command line"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Command could not be parsed or validated"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{name}/commands [post]
func (h *tripHandler) applyCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var req dto.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	trip, err := h.tripService.AppendCommand(c.Request.Context(), name, req.Line)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParse), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Trip already exists"})
		default:
			logger.Error("Failed to apply command", slog.String("trip", name), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply command"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}

// addActivity godoc
// @Summary Add an activity to a trip
// @Description Structured alternative to a raw add command; the server assigns the activity uid
// @Tags trips
// @Accept  json
// @Produce  json
// @Param   name path string true "Trip name"
// @Param   activity body dto.AddActivityRequest true "Activity details"
// @Success 200 {object} dto.TripResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{name}/activities [post]
func (h *tripHandler) addActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var req dto.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	cmd := domain.AddActivity{
		UID:    uuid.NewString(),
		Fields: req.Fields(),
	}

	trip, err := h.tripService.AppendCommand(c.Request.Context(), name, cmd.Encode())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParse), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
		default:
			logger.Error("Failed to add activity", slog.String("trip", name), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add activity"})
		}
		return
	}

	logger.Info("Activity added", slog.String("trip", name), slog.String("uid", cmd.UID))
	c.JSON(http.StatusOK, dto.ToTripResponse(trip))
}
