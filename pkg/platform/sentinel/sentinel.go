package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors without knowing
// the backing implementation.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: realm, client, session, or code does not exist in the store
// - ErrExpired: access code past its exchange window
// - ErrAlreadyUsed: access code already consumed
// - ErrInvalidState: entity in wrong state for the requested operation
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
)
