package handler

import (
	"context"
	"net/http"

	"github.com/teolin/gobank/internal/adapter/http/dto"
	"github.com/teolin/gobank/internal/usecase"
)

// ConsistencyService defines the behavior needed by LedgerHandler.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operational endpoints.
type LedgerHandler struct {
	reconUC ConsistencyService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconUC ConsistencyService) *LedgerHandler {
	return &LedgerHandler{reconUC: reconUC}
}

// Consistency replays the transaction log and reports accounts whose stored
// balance drifts from it.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
