// Package repository implements the persistent credential store (MySQL) and
// the ephemeral secret store / session cache (Redis). These sentinel values
// allow higher layers to distinguish failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row or key. Handlers and
// the service layer translate this into their own taxonomy; the stores never
// leak driver errors for the absent case.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint (email, phone or nid). MySQL reports this as error 1062.
var ErrDuplicate = errors.New("duplicate key")
