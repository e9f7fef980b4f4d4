package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/planloop/trip_planner_app/internal/apperrors"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/dto"
	"github.com/planloop/trip_planner_app/internal/middleware"
	"github.com/shopspring/decimal"

	"github.com/gin-gonic/gin"
)

// exchangeRateHandler serves currency conversion over the latest
// fetched rate sheet.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers the rate conversion routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("/convert", h.convert)
	}
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts using the most recently fetched rate sheet
// @Tags rates
// @Produce  json
// @Param   from query string true "Source ISO 4217 code"
// @Param   to query string true "Target ISO 4217 code"
// @Param   amount query string true "Decimal amount"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "No rate sheet fetched yet"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/convert [get]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid amount: " + req.Amount})
		return
	}

	converted, sheet, err := h.rateService.Convert(c.Request.Context(), amount, req.From, req.To)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No exchange rates available yet"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		From:      req.From,
		To:        req.To,
		Amount:    amount,
		Converted: converted,
		FetchedAt: sheet.FetchedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
