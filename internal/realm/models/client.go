package models

import (
	dErrors "authgate/pkg/domain-errors"
)

// Client is a relying party registered within a realm.
//
// Invariants:
//   - ClientID is non-empty
//   - RealmName is immutable after construction
//   - Confidential clients carry a bcrypt secret hash; public clients never do
//
// Confidential clients exchange an authorization code directly for a token.
// Public clients route through an explicit user consent step first.
type Client struct {
	ClientID     string
	RealmName    string
	Name         string
	Enabled      bool
	SecretHash   string `json:"-"` // never serialize, contains bcrypt hash
	WebOrigins   []string
	RedirectURIs []string
}

func NewClient(realmName, clientID, name string, redirectURIs []string) (*Client, error) {
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client_id cannot be empty")
	}
	if realmName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client realm cannot be empty")
	}
	return &Client{
		ClientID:     clientID,
		RealmName:    realmName,
		Name:         name,
		Enabled:      true,
		RedirectURIs: redirectURIs,
	}, nil
}

// IsConfidential reports whether the client can hold a secret and therefore
// exchanges codes directly for tokens without a consent step.
func (c *Client) IsConfidential() bool {
	return c.SecretHash != ""
}
