package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingAction is the step a client session is waiting on after an access
// code has been issued for it.
type PendingAction string

const (
	ActionNone        PendingAction = ""
	ActionCodeToToken PendingAction = "CODE_TO_TOKEN"
	ActionOAuthGrant  PendingAction = "OAUTH_GRANT"
)

// UserSession is the server-side session for a user within a realm. Exactly
// one user session is current for a given browser context; a prior session for
// the same browser is superseded, not merged, when a new login completes.
type UserSession struct {
	ID           uuid.UUID `json:"id"`
	RealmName    string    `json:"realm"`
	UserID       uuid.UUID `json:"user_id"`
	RememberMe   bool      `json:"remember_me"`
	Device       string    `json:"device,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at"`
}

// ClientSession correlates a user session with one client-scoped
// authorization attempt.
type ClientSession struct {
	ID            uuid.UUID     `json:"id"`
	UserSessionID uuid.UUID     `json:"user_session_id"`
	RealmName     string        `json:"realm"`
	ClientID      string        `json:"client_id"`
	PendingAction PendingAction `json:"pending_action"`
	Scope         string        `json:"scope,omitempty"`
	RedirectURI   string        `json:"redirect_uri,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
