package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountNum int64           `json:"account_num"`
	OwnerID    int64           `json:"owner_id"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountNum: a.AccountNum,
		OwnerID:    a.OwnerID,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AccountListMeta carries aggregate figures for an account collection.
type AccountListMeta struct {
	NumAccounts  int             `json:"num_accounts"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// AccountListResponse represents an account collection with aggregates.
type AccountListResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Meta     AccountListMeta    `json:"_meta"`
}

// AccountListFromSummary converts an account summary to a response.
func AccountListFromSummary(s *usecase.AccountSummary) *AccountListResponse {
	return &AccountListResponse{
		Accounts: AccountsFromDomain(s.Accounts),
		Meta: AccountListMeta{
			NumAccounts:  s.NumAccounts,
			TotalBalance: s.TotalBalance,
		},
	}
}

// MovementResponse represents a single ledger record in API responses.
// History endpoints use TransactionResponse, which adds display names.
type MovementResponse struct {
	ID        int64           `json:"id"`
	FromAcc   int64           `json:"from_acc"`
	ToAcc     int64           `json:"to_acc"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// MovementFromDomain converts a domain transaction to a response.
func MovementFromDomain(t *domain.Transaction) *MovementResponse {
	return &MovementResponse{
		ID:        t.ID,
		FromAcc:   t.SenderAccountNum,
		ToAcc:     t.ReceiverAccountNum,
		Amount:    t.Amount,
		Type:      string(t.Kind),
		CreatedAt: t.CreatedAt,
	}
}

// TransactionResponse represents a history record with the display names
// of both endpoint owners.
type TransactionResponse struct {
	ID        int64           `json:"id"`
	From      string          `json:"from"`
	FromAcc   int64           `json:"from_acc"`
	To        string          `json:"to"`
	ToAcc     int64           `json:"to_acc"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}

// TransactionFromDetail converts a transaction detail to a response.
func TransactionFromDetail(d *domain.TransactionDetail) *TransactionResponse {
	return &TransactionResponse{
		ID:        d.ID,
		From:      d.SenderName,
		FromAcc:   d.SenderAccountNum,
		To:        d.ReceiverName,
		ToAcc:     d.ReceiverAccountNum,
		Amount:    d.Amount,
		Type:      string(d.Kind),
		CreatedAt: d.CreatedAt,
	}
}

// TransactionsFromDetails converts transaction details to responses.
func TransactionsFromDetails(details []*domain.TransactionDetail) []*TransactionResponse {
	result := make([]*TransactionResponse, len(details))
	for i, d := range details {
		result[i] = TransactionFromDetail(d)
	}
	return result
}

// TransactionListMeta carries aggregate figures for a history collection.
type TransactionListMeta struct {
	TotalTransactions int `json:"total_transactions"`
}

// TransactionListResponse represents a history collection.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Meta         TransactionListMeta    `json:"_meta"`
}

// TransactionListFromHistory converts a history result to a response.
func TransactionListFromHistory(h *usecase.TransactionHistory) *TransactionListResponse {
	return &TransactionListResponse{
		Transactions: TransactionsFromDetails(h.Transactions),
		Meta:         TransactionListMeta{TotalTransactions: h.Total},
	}
}

// RegisterResponse represents a successful registration: the user, their
// opened account and its genesis record.
type RegisterResponse struct {
	User        *UserResponse     `json:"user"`
	Account     *AccountResponse  `json:"account"`
	Transaction *MovementResponse `json:"transaction"`
}

// RegisterFromResult converts a registration result to a response.
func RegisterFromResult(res *usecase.RegisterResult) *RegisterResponse {
	return &RegisterResponse{
		User:        UserFromDomain(res.User),
		Account:     AccountFromDomain(res.Account),
		Transaction: MovementFromDomain(res.Transaction),
	}
}

// LedgerOperationResponse represents the result of a deposit, withdrawal
// or transfer: the caller's account snapshot plus the appended record.
type LedgerOperationResponse struct {
	Account     *AccountResponse  `json:"account"`
	Transaction *MovementResponse `json:"transaction"`
}

// LedgerOperationFromResult converts a ledger result to a response.
func LedgerOperationFromResult(res *usecase.LedgerResult) *LedgerOperationResponse {
	return &LedgerOperationResponse{
		Account:     AccountFromDomain(res.Account),
		Transaction: MovementFromDomain(res.Transaction),
	}
}

// TokenResponse represents an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DriftResponse represents one account whose stored balance disagrees with
// the replayed transaction log.
type DriftResponse struct {
	AccountNum int64           `json:"account_num"`
	Stored     decimal.Decimal `json:"stored"`
	Replayed   decimal.Decimal `json:"replayed"`
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	Consistent bool             `json:"consistent"`
	Drifts     []*DriftResponse `json:"drifts"`
}

// ConsistencyFromReport converts a consistency report to a response.
func ConsistencyFromReport(rep *usecase.ConsistencyReport) *ConsistencyResponse {
	drifts := make([]*DriftResponse, len(rep.Drifts))
	for i, d := range rep.Drifts {
		drifts[i] = &DriftResponse{
			AccountNum: d.AccountNum,
			Stored:     d.Stored,
			Replayed:   d.Replayed,
		}
	}
	return &ConsistencyResponse{
		Consistent: rep.Consistent,
		Drifts:     drifts,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
