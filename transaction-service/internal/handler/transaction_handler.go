package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/middleware"
	"github.com/farahsharshar/v-banking-system/shared/models"
)

// Coordinator defines the transfer operations used by TransactionHandler.
type Coordinator interface {
	Initiate(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal, description string) (*models.TransferReceipt, error)
	Execute(ctx context.Context, transferID uuid.UUID) (*models.TransferReceipt, error)
	GetAccountTransactions(ctx context.Context, accountID uuid.UUID) ([]models.AccountTransactionView, error)
}

type TransactionHandler struct {
	coordinator Coordinator
}

func NewTransactionHandler(coordinator Coordinator) *TransactionHandler {
	return &TransactionHandler{coordinator: coordinator}
}

type InitiateTransferRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required,uuid"`
	ToAccountID   string          `json:"toAccountId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description" validate:"max=255"`
}

type ExecuteTransferRequest struct {
	TransactionID string `json:"transactionId" validate:"required,uuid"`
}

func (h *TransactionHandler) InitiateTransfer(c *gin.Context) {
	var req InitiateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	fromID, err := uuid.Parse(req.FromAccountID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid from account ID")
		return
	}
	toID, err := uuid.Parse(req.ToAccountID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid to account ID")
		return
	}

	receipt, err := h.coordinator.Initiate(c.Request.Context(), fromID, toID, req.Amount, req.Description)
	if err != nil {
		respondWithTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *TransactionHandler) ExecuteTransfer(c *gin.Context) {
	var req ExecuteTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transferID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	receipt, err := h.coordinator.Execute(c.Request.Context(), transferID)
	if err != nil {
		respondWithTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *TransactionHandler) GetAccountTransactions(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account ID")
		return
	}

	views, err := h.coordinator.GetAccountTransactions(c.Request.Context(), accountID)
	if err != nil {
		respondWithTransferError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func respondWithTransferError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidTransfer):
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' or 'to' account ID")
	case errors.Is(err, errs.ErrInvalidArgument):
		middleware.RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
	case errors.Is(err, errs.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, errs.ErrInvalidState):
		middleware.RespondWithError(c, http.StatusConflict, "Transaction is not in INITIATED status")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
