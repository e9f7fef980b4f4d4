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

// chatHandler handles the conversational interface to a trip.
type chatHandler struct {
	chatService portssvc.ChatSvcFacade
}

func newChatHandler(cs portssvc.ChatSvcFacade) *chatHandler {
	return &chatHandler{chatService: cs}
}

// registerChatRoutes registers the per-trip chat routes.
func registerChatRoutes(rg *gin.RouterGroup, chatService portssvc.ChatSvcFacade) {
	h := newChatHandler(chatService)

	chat := rg.Group("/trips/:name/chat")
	{
		chat.POST("", h.sendMessage)
		chat.GET("", h.getTranscript)
	}
}

// sendMessage godoc
// @Summary Send a message to the trip assistant
// @Description Forwards the message to the assistant; any command the assistant emits is journaled against the trip
// @Tags chat
// @Accept  json
// @Produce  json
// @Param   name path string true "Trip name"
// @Param   message body dto.ChatRequest true "User message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Trip not found"
// @Failure 502 {object} ErrorResponse "Assistant unavailable"
// @Security BearerAuth
// @Router /trips/{name}/chat [post]
func (h *chatHandler) sendMessage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.chatService.SendMessage(c.Request.Context(), name, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Trip not found"})
			return
		}
		logger.Error("Chat message failed", slog.String("trip", name), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTranscript godoc
// @Summary Get the trip's conversation transcript
// @Tags chat
// @Produce  json
// @Param   name path string true "Trip name"
// @Success 200 {object} dto.TranscriptResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /trips/{name}/chat [get]
func (h *chatHandler) getTranscript(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	messages, err := h.chatService.GetTranscript(c.Request.Context(), name)
	if err != nil {
		logger.Error("Failed to load transcript", slog.String("trip", name), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load transcript"})
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptResponse{Messages: messages})
}
