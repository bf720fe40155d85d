package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/adapter/http/dto"
	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/infrastructure/metrics"
	"github.com/teolin/gobank/internal/usecase"
)

// AccountReader defines the read-side behavior needed by AccountHandler.
type AccountReader interface {
	ListAccounts(ctx context.Context, userID int64) (*usecase.AccountSummary, error)
	GetAccount(ctx context.Context, callerID, accountNum int64) (*domain.Account, error)
}

// LedgerService defines the balance-mutating behavior needed by AccountHandler.
type LedgerService interface {
	Deposit(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error)
	Withdraw(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error)
	Transfer(ctx context.Context, callerID, fromNum, toNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	historyUC AccountReader
	ledgerUC  LedgerService
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(historyUC AccountReader, ledgerUC LedgerService, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{historyUC: historyUC, ledgerUC: ledgerUC, metrics: m}
}

// List returns the caller's accounts with aggregate totals.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	summary, err := h.historyUC.ListAccounts(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountListFromSummary(summary))
}

// Get returns one of the caller's accounts.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	num, err := parseIDParam(r, "num")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return
	}

	account, err := h.historyUC.GetAccount(r.Context(), userID, num)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Deposit credits an account owned by the caller.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	num, err := parseIDParam(r, "num")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return
	}

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Deposit(r.Context(), userID, num, req.DepositAmount)
	if err != nil {
		h.recordError(domain.KindDeposit)
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	h.recordMovement(domain.KindDeposit, req.DepositAmount)
	writeJSON(w, http.StatusCreated, dto.LedgerOperationFromResult(result))
}

// Withdraw debits an account owned by the caller.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	num, err := parseIDParam(r, "num")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return
	}

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Withdraw(r.Context(), userID, num, req.WithdrawAmount)
	if err != nil {
		h.recordError(domain.KindWithdrawal)
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	h.recordMovement(domain.KindWithdrawal, req.WithdrawAmount)
	writeJSON(w, http.StatusCreated, dto.LedgerOperationFromResult(result))
}

// Transfer moves funds from the caller's account to another account.
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := authorizeUserPath(w, r)
	if !ok {
		return
	}

	num, err := parseIDParam(r, "num")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Transfer(r.Context(), userID, num, req.ToAccountNum, req.Amount)
	if err != nil {
		h.recordError(domain.KindTransfer)
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	h.recordMovement(domain.KindTransfer, req.Amount)
	writeJSON(w, http.StatusCreated, dto.LedgerOperationFromResult(result))
}

func (h *AccountHandler) recordMovement(kind domain.MovementKind, amount decimal.Decimal) {
	if h.metrics == nil {
		return
	}
	h.metrics.LedgerOperations.WithLabelValues(string(kind)).Inc()
	f, _ := amount.Float64()
	h.metrics.MovementAmount.WithLabelValues(string(kind)).Observe(f)
}

func (h *AccountHandler) recordError(kind domain.MovementKind) {
	if h.metrics == nil {
		return
	}
	h.metrics.LedgerErrors.WithLabelValues(string(kind)).Inc()
}
