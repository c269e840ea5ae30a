package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"authgate/internal/session/models"
	"authgate/pkg/platform/sentinel"
)

// DefaultSessionTTL bounds how long an idle session record survives in Redis.
const DefaultSessionTTL = 10 * time.Hour

// Redis persists session records as JSON values with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*Redis)

// WithTTL overrides the session record TTL.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, ttl: DefaultSessionTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func redisUserSessionKey(realmName string, id uuid.UUID) string {
	return "authgate:usersession:" + realmName + ":" + id.String()
}

func redisClientSessionKey(id uuid.UUID) string {
	return "authgate:clientsession:" + id.String()
}

func (r *Redis) GetUserSession(ctx context.Context, realmName string, id uuid.UUID) (*models.UserSession, error) {
	data, err := r.client.Get(ctx, redisUserSessionKey(realmName, id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("user session %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get user session: %w", err)
	}
	var session models.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode user session: %w", err)
	}
	return &session, nil
}

func (r *Redis) CreateUserSession(ctx context.Context, session *models.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode user session: %w", err)
	}
	if err := r.client.Set(ctx, redisUserSessionKey(session.RealmName, session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store user session: %w", err)
	}
	return nil
}

func (r *Redis) RemoveUserSession(ctx context.Context, realmName string, id uuid.UUID) error {
	if err := r.client.Del(ctx, redisUserSessionKey(realmName, id)).Err(); err != nil {
		return fmt.Errorf("remove user session: %w", err)
	}
	return nil
}

func (r *Redis) CreateClientSession(ctx context.Context, session *models.ClientSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode client session: %w", err)
	}
	if err := r.client.Set(ctx, redisClientSessionKey(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store client session: %w", err)
	}
	return nil
}

func (r *Redis) GetClientSession(ctx context.Context, id uuid.UUID) (*models.ClientSession, error) {
	data, err := r.client.Get(ctx, redisClientSessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("client session %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get client session: %w", err)
	}
	var session models.ClientSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode client session: %w", err)
	}
	return &session, nil
}

func (r *Redis) UpdateClientSessionAction(ctx context.Context, id uuid.UUID, action models.PendingAction) error {
	session, err := r.GetClientSession(ctx, id)
	if err != nil {
		return err
	}
	session.PendingAction = action
	return r.CreateClientSession(ctx, session)
}
