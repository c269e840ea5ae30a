package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	realmmetrics "authgate/internal/realm/metrics"
	"authgate/internal/realm/models"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/sentinel"
)

// RealmStore is the narrow read interface the directory needs.
type RealmStore interface {
	FindByName(ctx context.Context, name string) (*models.Realm, error)
}

// Directory resolves realms and clients for every inbound request. It is the
// single choke point for tenant resolution: a disabled realm or client is
// indistinguishable from an absent one to callers.
type Directory struct {
	realms  RealmStore
	logger  *slog.Logger
	metrics *realmmetrics.Metrics
}

type Option func(d *Directory)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) { d.logger = logger }
}

func WithMetrics(m *realmmetrics.Metrics) Option {
	return func(d *Directory) { d.metrics = m }
}

// New constructs a Directory.
func New(realms RealmStore, opts ...Option) *Directory {
	d := &Directory{realms: realms}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ResolveRealm looks up a realm by name. Unknown and disabled realms both
// resolve to a not-found error; no further detail is leaked.
func (d *Directory) ResolveRealm(ctx context.Context, name string) (*models.Realm, error) {
	start := time.Now()
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "realm name is required")
	}

	realm, err := d.realms.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			d.incrementNotFound()
			return nil, dErrors.New(dErrors.CodeNotFound, "realm not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve realm")
	}
	if !realm.Enabled {
		d.incrementNotFound()
		return nil, dErrors.New(dErrors.CodeNotFound, "realm not found")
	}

	if d.metrics != nil {
		d.metrics.RealmResolved.Inc()
		d.metrics.ObserveResolveRealm(start)
	}
	return realm, nil
}

// ResolveClient looks up a client registration within an already-resolved
// realm. Absent and disabled clients both yield not-found.
func (d *Directory) ResolveClient(_ context.Context, realm *models.Realm, clientID string) (*models.Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "client_id is required")
	}

	client, ok := realm.Client(clientID)
	if !ok || !client.Enabled {
		return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
	}
	return client, nil
}

// ResolveAccountApplication returns the realm's account management application
// or not-found when it is absent or disabled.
func (d *Directory) ResolveAccountApplication(_ context.Context, realm *models.Realm) (*models.Client, error) {
	app, ok := realm.Application(models.AccountApplication)
	if !ok || !app.Enabled {
		if d.logger != nil {
			d.logger.Debug("account management not enabled", "realm", realm.Name)
		}
		return nil, dErrors.New(dErrors.CodeNotFound, "account management not enabled")
	}
	return app, nil
}
