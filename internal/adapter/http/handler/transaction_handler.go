package handler

import (
	"context"
	"net/http"

	"github.com/teolin/gobank/internal/adapter/http/dto"
	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
)

// HistoryService defines the behavior needed by TransactionHandler.
type HistoryService interface {
	ListTransactions(ctx context.Context, userID int64) (*usecase.TransactionHistory, error)
	GetTransaction(ctx context.Context, callerID, txnID int64) (*domain.TransactionDetail, error)
}

// TransactionHandler handles transaction history HTTP requests.
type TransactionHandler struct {
	historyUC HistoryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(historyUC HistoryService) *TransactionHandler {
	return &TransactionHandler{historyUC: historyUC}
}

// List returns every record referencing any of the caller's accounts,
// newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	history, err := h.historyUC.ListTransactions(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListFromHistory(history))
}

// Get returns a single record. Missing ids are 404 regardless of caller;
// records the caller has no stake in are 403.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	txnID, err := parseIDParam(r, "txnID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	detail, err := h.historyUC.GetTransaction(r.Context(), userID, txnID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDetail(detail))
}
