package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Order errors
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidOrder  = errors.New("invalid order")

	// Wallet and spin errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInvalidWager      = errors.New("invalid wager")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("spending limit exceeded")
	ErrWalletBusy        = errors.New("wallet is busy")
	ErrWalletConflict    = errors.New("wallet changed concurrently")
	ErrInvalidCredit     = errors.New("invalid credit amount")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyKeyReused   = errors.New("idempotency key reused with different request")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Validation errors
	ErrDomainValidation       = errors.New("domain validation error")
	ErrDomainValidationFailed = errors.New("domain validation failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrStoreOperationFailed    = errors.New("store operation failed")
)
