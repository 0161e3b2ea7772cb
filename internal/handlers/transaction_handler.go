package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
	"stockfolio/internal/services"
)

// transactionDateFormat is the calendar-date wire format for
// transaction dates; there is no time-of-day component.
const transactionDateFormat = "2006-01-02"

// TransactionHandler handles ledger-entry requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// RecordTransactionRequest represents the request payload for recording
// a ledger entry. Price, quantity, and fees apply to purchases; credit
// applies to dividends.
type RecordTransactionRequest struct {
	Kind         models.TransactionKind `json:"kind" binding:"required,transaction_kind"`
	Date         string                 `json:"date" binding:"required"`
	PricePerUnit float64                `json:"price_per_unit" binding:"omitempty,gt=0"`
	Quantity     float64                `json:"quantity" binding:"omitempty,gt=0"`
	Fees         float64                `json:"fees" binding:"omitempty,gte=0"`
	Credit       float64                `json:"credit" binding:"omitempty,gt=0"`
	Notes        string                 `json:"notes" binding:"max=500"`
}

// RecordTransaction records a purchase or dividend against an asset.
// @Summary     Record transaction
// @Description Record a purchase or dividend for an asset
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Param       request body RecordTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/transactions [post]
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := time.Parse(transactionDateFormat, req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Date must be YYYY-MM-DD"))
		return
	}

	var txn *models.Transaction
	switch req.Kind {
	case models.TransactionKindPurchase:
		txn, err = h.transactionService.RecordPurchase(
			userID, assetID, date,
			decimal.NewFromFloat(req.PricePerUnit),
			decimal.NewFromFloat(req.Quantity),
			decimal.NewFromFloat(req.Fees),
			req.Notes,
		)
	case models.TransactionKindDividend:
		txn, err = h.transactionService.RecordDividend(
			userID, assetID, date,
			decimal.NewFromFloat(req.Credit),
			req.Notes,
		)
	default:
		err = apperrors.ErrInvalidTransactionKind
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// ListTransactions returns an asset's transactions, newest first.
// @Summary     List transactions
// @Description Get a paginated list of an asset's transactions, newest date first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactions, err := h.transactionService.GetAssetTransactions(userID, assetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// DeleteTransaction removes a single ledger entry.
// @Summary     Delete transaction
// @Description Delete one transaction by ID
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     204 "Transaction deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
