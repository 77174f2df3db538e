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

// Ledger defines the account operations exposed over HTTP.
type Ledger interface {
	OpenAccount(ctx context.Context, userID uuid.UUID, accountType models.AccountType, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.AccountView, error)
	ListUserAccounts(ctx context.Context, userID uuid.UUID) ([]models.Account, error)
	TransferFunds(ctx context.Context, fromID, toID uuid.UUID, amount decimal.Decimal) error
}

type AccountHandler struct {
	ledger Ledger
}

func NewAccountHandler(ledger Ledger) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type CreateAccountRequest struct {
	UserID         string          `json:"userId" validate:"required,uuid"`
	AccountType    string          `json:"accountType" validate:"required,oneof=SAVINGS CHECKING CURRENT"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId" validate:"required,uuid"`
	ToAccountID   string          `json:"toAccountId" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	account, err := h.ledger.OpenAccount(c.Request.Context(), userID, models.AccountType(req.AccountType), req.InitialBalance)
	if err != nil {
		respondWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"message":       "Account created successfully.",
	})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountId"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid account ID")
		return
	}

	account, err := h.ledger.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) ListUserAccounts(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	accounts, err := h.ledger.ListUserAccounts(c.Request.Context(), userID)
	if err != nil {
		respondWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// Transfer is the internal PUT /accounts/transfer primitive consumed by the
// transaction service.
func (h *AccountHandler) Transfer(c *gin.Context) {
	var req TransferRequest
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

	if err := h.ledger.TransferFunds(c.Request.Context(), fromID, toID, req.Amount); err != nil {
		respondWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully."})
}

func respondWithLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, errs.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
	case errors.Is(err, errs.ErrInvalidArgument):
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request data")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
