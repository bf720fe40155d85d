package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotAccountOwner   = errors.New("account does not belong to caller")

	// Transaction errors
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotVisible = errors.New("transaction does not involve caller")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrSameAccount           = errors.New("cannot transfer to same account")
	ErrSelfLoopRequired      = errors.New("record kind requires sender and receiver to match")
	ErrUnknownMovementKind   = errors.New("unknown transaction type")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email address already in use")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
)
