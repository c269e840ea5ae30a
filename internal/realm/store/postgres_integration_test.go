//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"authgate/internal/realm/models"
	"authgate/internal/realm/store"
	"authgate/pkg/platform/sentinel"
	"authgate/pkg/testutil/containers"
)

type PostgresRealmSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresRealmSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRealmSuite))
}

func (s *PostgresRealmSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(s.postgres.ApplySchema(context.Background(), store.Schema))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresRealmSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "realm_clients", "realms"))
}

func (s *PostgresRealmSuite) newRealm(name string) *models.Realm {
	realm, err := models.NewRealm(name)
	s.Require().NoError(err)
	return realm
}

func (s *PostgresRealmSuite) TestRoundTripWithClients() {
	ctx := context.Background()

	realm := s.newRealm("acme")
	realm.VerifyEmail = true
	realm.RequiredCredentials = []models.CredentialType{models.CredentialPassword, models.CredentialTOTP}

	client, err := models.NewClient("acme", "web", "Web", []string{"https://app.example.com/cb"})
	s.Require().NoError(err)
	client.SecretHash = "$2a$10$hash"
	client.WebOrigins = []string{"https://portal.example.com", "*"}
	realm.AddClient(client)

	s.Require().NoError(s.store.Create(ctx, realm))

	found, err := s.store.FindByName(ctx, "acme")
	s.Require().NoError(err)
	s.True(found.VerifyEmail)
	s.True(found.RequiresCredential(models.CredentialTOTP))

	loaded, ok := found.Client("web")
	s.Require().True(ok)
	s.Equal([]string{"https://app.example.com/cb"}, loaded.RedirectURIs)
	s.Equal([]string{"https://portal.example.com", "*"}, loaded.WebOrigins)
	s.Equal("$2a$10$hash", loaded.SecretHash)
}

func (s *PostgresRealmSuite) TestCaseInsensitiveLookup() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newRealm("MixedCase")))

	found, err := s.store.FindByName(ctx, "mixedcase")
	s.Require().NoError(err)
	s.Equal("MixedCase", found.Name)
}

func (s *PostgresRealmSuite) TestNotFound() {
	_, err := s.store.FindByName(context.Background(), "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresRealmSuite) TestConcurrentCreateSameName() {
	ctx := context.Background()
	name := "concurrent-" + uuid.NewString()
	const goroutines = 20

	var wg sync.WaitGroup
	var successes, conflicts atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			realm, err := models.NewRealm(name)
			if err != nil {
				return
			}
			switch err := s.store.Create(ctx, realm); {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load(), "exactly one create should win")
	s.Equal(int32(goroutines-1), conflicts.Load())
}
