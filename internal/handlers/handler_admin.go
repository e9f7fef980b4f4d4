package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// adminHandler exposes operator-only views: raw journal inspection,
// the user list and manual rate refresh.
type adminHandler struct {
	tripService portssvc.TripSvcFacade
	userService portssvc.UserSvcFacade
	rateService portssvc.ExchangeRateSvcFacade
}

func newAdminHandler(ts portssvc.TripSvcFacade, us portssvc.UserSvcFacade, rs portssvc.ExchangeRateSvcFacade) *adminHandler {
	return &adminHandler{
		tripService: ts,
		userService: us,
		rateService: rs,
	}
}

// registerAdminRoutes registers the admin-only routes behind an
// IsAdmin gate.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAdminHandler(services.Trip, services.User, services.ExchangeRate)

	admin := rg.Group("/admin", h.requireAdmin)
	{
		admin.GET("/trips/:name/journal", h.getJournal)
		admin.GET("/users", h.listUsers)
		admin.POST("/rates/refresh", h.refreshRates)
	}
}

// requireAdmin aborts with 403 unless the authenticated user has the
// admin flag set.
func (h *adminHandler) requireAdmin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to load user for admin check", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if !user.IsAdmin {
		logger.Warn("Non-admin user attempted admin route", slog.String("user_id", userID))
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	c.Next()
}

// getJournal godoc
// @Summary Inspect a trip's raw journal
// @Description Returns every journal line in write order, flagging the currently active entries
// @Tags admin
// @Produce  json
// @Param   name path string true "Trip name"
// @Success 200 {object} map[string][]dto.JournalEntryResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/trips/{name}/journal [get]
func (h *adminHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	lines, active, err := h.tripService.RawJournal(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
			return
		}
		logger.Error("Failed to read journal", slog.String("trip", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read journal"})
		return
	}

	activeSet := make(map[int]bool, len(active))
	for _, idx := range active {
		activeSet[idx] = true
	}

	entries := make([]dto.JournalEntryResponse, 0, len(lines))
	for i, line := range lines {
		entries = append(entries, dto.JournalEntryResponse{
			LineNumber: i + 1,
			Line:       line,
			Active:     activeSet[i],
		})
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// listUsers godoc
// @Summary List all users
// @Tags admin
// @Produce  json
// @Success 200 {object} map[string][]dto.UserResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *adminHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.ToUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// refreshRates godoc
// @Summary Fetch a fresh exchange rate sheet
// @Tags admin
// @Produce  json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 502 {object} ErrorResponse "Rates provider unavailable"
// @Security BearerAuth
// @Router /admin/rates/refresh [post]
func (h *adminHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sheet, err := h.rateService.Refresh(c.Request.Context())
	if err != nil {
		logger.Error("Rate refresh failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch exchange rates"})
		return
	}

	logger.Info("Rate sheet refreshed", slog.String("base", sheet.Base), slog.Int("count", len(sheet.Rates)))
	c.JSON(http.StatusOK, gin.H{
		"base":      sheet.Base,
		"fetchedAt": sheet.FetchedAt,
		"count":     len(sheet.Rates),
	})
}
