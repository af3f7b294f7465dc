package model

import "errors"

// Sentinel errors surfaced by the core. Handlers match these with errors.Is
// and map them to HTTP status codes; services never swallow them.
var (
	// ErrForbidden means the actor's role or ownership does not permit the
	// requested transition.
	ErrForbidden = errors.New("fintrack: forbidden")

	// ErrInvalidState means the requested transition is not defined from the
	// entity's current state, regardless of who asks.
	ErrInvalidState = errors.New("fintrack: invalid state for transition")

	// ErrValidation means the payload is missing or violating required fields
	// for the transition.
	ErrValidation = errors.New("fintrack: validation failed")

	// ErrInsufficientFunds means a payment would drive a bank account
	// balance negative; no mutation occurred.
	ErrInsufficientFunds = errors.New("fintrack: insufficient funds")

	// ErrOverReceipt means a purchase order receipt would exceed the ordered
	// quantity on at least one line; the whole call aborted.
	ErrOverReceipt = errors.New("fintrack: receipt exceeds ordered quantity")

	// ErrConcurrentModification means the entity or ledger row changed
	// between read and commit.
	ErrConcurrentModification = errors.New("fintrack: concurrent modification")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("fintrack: not found")
)
