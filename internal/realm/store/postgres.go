package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"authgate/internal/realm/models"
	"authgate/pkg/platform/sentinel"
)

// Schema is the DDL backing the Postgres realm store. Applied by deployment
// tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS realms (
    name         TEXT PRIMARY KEY,
    enabled      BOOLEAN NOT NULL DEFAULT TRUE,
    verify_email BOOLEAN NOT NULL DEFAULT FALSE,
    required_credentials TEXT[] NOT NULL DEFAULT '{}'
);
CREATE UNIQUE INDEX IF NOT EXISTS realms_name_lower ON realms (LOWER(name));

CREATE TABLE IF NOT EXISTS realm_clients (
    client_id     TEXT NOT NULL,
    realm_name    TEXT NOT NULL REFERENCES realms(name) ON DELETE CASCADE,
    name          TEXT NOT NULL DEFAULT '',
    enabled       BOOLEAN NOT NULL DEFAULT TRUE,
    secret_hash   TEXT NOT NULL DEFAULT '',
    web_origins   TEXT[] NOT NULL DEFAULT '{}',
    redirect_uris TEXT[] NOT NULL DEFAULT '{}',
    PRIMARY KEY (realm_name, client_id)
);
`

// Postgres persists realms and their client registrations in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, realm *models.Realm) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create realm: %w", err)
	}
	defer tx.Rollback()

	creds := make([]string, len(realm.RequiredCredentials))
	for i, c := range realm.RequiredCredentials {
		creds[i] = string(c)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO realms (name, enabled, verify_email, required_credentials)
		VALUES ($1, $2, $3, $4)
	`, realm.Name, realm.Enabled, realm.VerifyEmail, pq.Array(creds))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("realm %q: %w", realm.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create realm: %w", err)
	}

	for _, client := range realm.Clients {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO realm_clients (client_id, realm_name, name, enabled, secret_hash, web_origins, redirect_uris)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, client.ClientID, realm.Name, client.Name, client.Enabled, client.SecretHash,
			pq.Array(client.WebOrigins), pq.Array(client.RedirectURIs))
		if err != nil {
			return fmt.Errorf("create realm client %q: %w", client.ClientID, err)
		}
	}

	return tx.Commit()
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Realm, error) {
	realm := &models.Realm{Clients: make(map[string]*models.Client)}
	var creds []string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, enabled, verify_email, required_credentials
		FROM realms WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&realm.Name, &realm.Enabled, &realm.VerifyEmail, pq.Array(&creds))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("realm %q: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find realm: %w", err)
	}
	for _, c := range creds {
		realm.RequiredCredentials = append(realm.RequiredCredentials, models.CredentialType(c))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client_id, name, enabled, secret_hash, web_origins, redirect_uris
		FROM realm_clients WHERE realm_name = $1
	`, realm.Name)
	if err != nil {
		return nil, fmt.Errorf("load realm clients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		client := &models.Client{RealmName: realm.Name}
		var origins, redirects []string
		if err := rows.Scan(&client.ClientID, &client.Name, &client.Enabled,
			&client.SecretHash, pq.Array(&origins), pq.Array(&redirects)); err != nil {
			return nil, fmt.Errorf("scan realm client: %w", err)
		}
		client.WebOrigins = origins
		client.RedirectURIs = redirects
		realm.Clients[client.ClientID] = client
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate realm clients: %w", err)
	}
	return realm, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key")
}
