package dto

import (
	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/usecase"
)

// RegisterUserRequest represents a request to register a user.
type RegisterUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterUserRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// DepositRequest represents a request to deposit into an account.
type DepositRequest struct {
	DepositAmount decimal.Decimal `json:"deposit_amount"`
}

// WithdrawRequest represents a request to withdraw from an account.
type WithdrawRequest struct {
	WithdrawAmount decimal.Decimal `json:"withdraw_amount"`
}

// TransferRequest represents a request to transfer between accounts.
type TransferRequest struct {
	ToAccountNum int64           `json:"to_account_num"`
	Amount       decimal.Decimal `json:"amount"`
}

// ChangeEmailRequest represents a request to change a user's email.
type ChangeEmailRequest struct {
	NewEmail string `json:"new_email"`
}

// ChangePasswordRequest represents a request to change a user's password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}
