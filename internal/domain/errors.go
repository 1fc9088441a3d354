package domain

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrIllegalTransition = errors.New("illegal escrow transition")
	ErrConflict          = errors.New("conflicting entry already exists")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("actor is not allowed to perform this operation")
	ErrAlreadyProcessed  = errors.New("entry already processed")

	// ErrLedgerIntegrity marks a settled amount that would break the
	// order's conservation invariants. It always aborts the enclosing
	// transaction and is never recovered locally.
	ErrLedgerIntegrity = errors.New("ledger integrity violation")
)
