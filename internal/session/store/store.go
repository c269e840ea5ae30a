package store

import (
	"context"

	"github.com/google/uuid"

	"authgate/internal/session/models"
)

//go:generate mockgen -source=store.go -destination=mock/gateway.go -package=storemock

// Gateway is the narrow interface the authorization core uses to reach
// persisted session state. Each operation is independently atomic; no
// transactions are assumed across calls.
//
// Error contract: lookups return sentinel.ErrNotFound (wrapped) for unknown
// ids; RemoveUserSession on an unknown id is a no-op returning nil, matching
// the best-effort reconciliation policy.
type Gateway interface {
	GetUserSession(ctx context.Context, realmName string, id uuid.UUID) (*models.UserSession, error)
	CreateUserSession(ctx context.Context, session *models.UserSession) error
	RemoveUserSession(ctx context.Context, realmName string, id uuid.UUID) error

	CreateClientSession(ctx context.Context, session *models.ClientSession) error
	GetClientSession(ctx context.Context, id uuid.UUID) (*models.ClientSession, error)
	UpdateClientSessionAction(ctx context.Context, id uuid.UUID, action models.PendingAction) error
}
