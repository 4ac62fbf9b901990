package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and collaborator clients
// return these (optionally wrapped) so services can translate them into
// domain errors.
//
// - ErrNotFound: entity does not exist in store
// - ErrConflict: unique or composite key already taken
// - ErrUnavailable: collaborator temporarily unavailable (open circuit)
// - ErrTimeout: bounded wait elapsed before the collaborator answered
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrTimeout     = errors.New("timeout")
)
