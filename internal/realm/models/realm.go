package models

import (
	dErrors "authgate/pkg/domain-errors"
)

// CredentialType identifies a credential kind a realm can require of its users.
type CredentialType string

const (
	CredentialPassword CredentialType = "password"
	CredentialTOTP     CredentialType = "totp"
)

// AccountApplication is the reserved application name that backs the per-realm
// account management sub-resource. The resource is only exposed when a realm
// has an enabled client registered under this name.
const AccountApplication = "account"

// Realm is a tenant namespace isolating users, clients, and policy.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Clients are keyed by their OAuth client_id
//   - Disabled realms resolve as not-found, never as "disabled" (no
//     information leak about why resolution failed)
//
// Realms are read-only to this core; administrative lifecycle lives elsewhere.
type Realm struct {
	Name                string
	Enabled             bool
	VerifyEmail         bool
	RequiredCredentials []CredentialType
	Clients             map[string]*Client
}

func NewRealm(name string) (*Realm, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "realm name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "realm name must be 128 characters or less")
	}
	return &Realm{
		Name:    name,
		Enabled: true,
		Clients: make(map[string]*Client),
	}, nil
}

// RequiresCredential reports whether the realm demands the given credential
// type from its users.
func (r *Realm) RequiresCredential(t CredentialType) bool {
	for _, c := range r.RequiredCredentials {
		if c == t {
			return true
		}
	}
	return false
}

// Client looks up a registered client by its client_id.
func (r *Realm) Client(clientID string) (*Client, bool) {
	c, ok := r.Clients[clientID]
	return c, ok
}

// Application looks up a client by application name. Used for reserved
// applications such as account management.
func (r *Realm) Application(name string) (*Client, bool) {
	for _, c := range r.Clients {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AddClient registers a client under the realm, keyed by client_id.
func (r *Realm) AddClient(c *Client) {
	r.Clients[c.ClientID] = c
}
