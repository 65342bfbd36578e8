package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors carry no infrastructure dependency.

var (
	// Fetch errors
	ErrNetwork = errors.New("joke endpoint unreachable")
	ErrDecode  = errors.New("joke payload does not match schema")

	// Storage errors are logged and absorbed by the engine.
	ErrStorage = errors.New("storage operation failed")

	// Preference errors
	ErrInvalidPreference = errors.New("invalid preference value")

	// Deck errors
	ErrDeckEmpty = errors.New("no card to swipe")
)
