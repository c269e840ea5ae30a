package authcode

import (
	"errors"
	"time"

	"github.com/google/uuid"

	realmmodels "authgate/internal/realm/models"
)

// AccessCode is the single-use credential produced by a completed
// authorization step.
//
// Code is the opaque wire value handed to the client; CodeID is a stable key
// used for event correlation so audit trails never carry the secret itself.
// Once exchanged, a code can never be exchanged again: consumption is
// enforced under the store lock via Execute.
type AccessCode struct {
	Code            string
	CodeID          uuid.UUID
	ClientSessionID uuid.UUID
	UserID          uuid.UUID
	RealmName       string
	ClientID        string

	// Role grants resolved at issue time, split by container for the
	// consent screen: realm-level roles and per-application roles keyed by
	// owning application name. A role appears in exactly one group.
	RealmRoles       []realmmodels.Role
	ApplicationRoles map[string][]realmmodels.Role

	// RequiredAction, when set, names the action the user must complete
	// before this code's authorization can finish.
	RequiredAction *realmmodels.RequiredAction

	State       string
	RedirectURI string

	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// MarkUsed flips the consumption state. Callers must hold the store lock.
func (c *AccessCode) MarkUsed() { c.Used = true }

// ValidateForConsume checks whether the code can be exchanged right now
// against the presented redirect URI.
func (c *AccessCode) ValidateForConsume(redirectURI string, now time.Time) error {
	if c.Used {
		return errors.New("access code already used")
	}
	if now.After(c.ExpiresAt) {
		return errors.New("access code expired")
	}
	if c.RedirectURI != "" && c.RedirectURI != redirectURI {
		return errors.New("redirect_uri mismatch")
	}
	return nil
}
