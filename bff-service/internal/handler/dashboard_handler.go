package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/middleware"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// Aggregator defines the read-aggregation operation used by DashboardHandler.
type Aggregator interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardView, error)
}

type DashboardHandler struct {
	aggregator Aggregator
}

func NewDashboardHandler(aggregator Aggregator) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	dashboard, err := h.aggregator.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrDashboard) {
			middleware.RespondWithError(c, http.StatusInternalServerError,
				"Failed to retrieve dashboard data due to an issue with downstream services")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
