package models

import (
	"github.com/google/uuid"
)

// RequiredAction is a mandatory step gating completion of authorization.
type RequiredAction string

const (
	ActionConfigureTOTP RequiredAction = "CONFIGURE_TOTP"
	ActionVerifyEmail   RequiredAction = "VERIFY_EMAIL"
)

// User is a principal within a realm.
type User struct {
	ID             uuid.UUID
	Email          string
	EmailVerified  bool
	TOTPConfigured bool
	// RequiredActions holds actions already pending for the user. The gate
	// appends to a copy and returns it; actions are never cleared here.
	RequiredActions ActionSet
	// Roles are the role grants the user holds, resolved against the scope
	// parameter when an access code is issued.
	Roles []Role
}

// Role is a grant within either the realm container or a named application.
type Role struct {
	Name string
	// Application is the owning application's name; empty means the role
	// belongs to the realm container.
	Application string
}

// IsRealmRole reports whether the role lives in the realm container.
func (r Role) IsRealmRole() bool { return r.Application == "" }

// ActionSet is an ordered, deduplicating set of required actions.
//
// Insertion order is stable, which makes First deterministic: the orchestrator
// acts on the first pending action and defers the rest to later authorization
// attempts.
type ActionSet struct {
	actions []RequiredAction
}

// NewActionSet builds a set preserving the order of its arguments.
func NewActionSet(actions ...RequiredAction) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s.Add(a)
	}
	return s
}

// Add appends an action unless it is already pending. Idempotent.
func (s *ActionSet) Add(a RequiredAction) {
	if s.Contains(a) {
		return
	}
	s.actions = append(s.actions, a)
}

// Contains reports whether the action is pending.
func (s ActionSet) Contains(a RequiredAction) bool {
	for _, existing := range s.actions {
		if existing == a {
			return true
		}
	}
	return false
}

// First returns the authoritative next action in insertion order.
func (s ActionSet) First() (RequiredAction, bool) {
	if len(s.actions) == 0 {
		return "", false
	}
	return s.actions[0], true
}

// Empty reports whether no actions are pending.
func (s ActionSet) Empty() bool { return len(s.actions) == 0 }

// Len returns the number of pending actions.
func (s ActionSet) Len() int { return len(s.actions) }

// All returns a copy of the pending actions in order.
func (s ActionSet) All() []RequiredAction {
	out := make([]RequiredAction, len(s.actions))
	copy(out, s.actions)
	return out
}

// Clone returns an independent copy of the set.
func (s ActionSet) Clone() ActionSet {
	return ActionSet{actions: s.All()}
}
