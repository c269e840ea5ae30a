package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"authgate/internal/audit"
	"authgate/internal/authcode"
	"authgate/internal/flow"
	flowmetrics "authgate/internal/flow/metrics"
	"authgate/internal/platform/config"
	"authgate/internal/platform/httpserver"
	"authgate/internal/platform/logger"
	platformredis "authgate/internal/platform/redis"
	realmmetrics "authgate/internal/realm/metrics"
	realmmodels "authgate/internal/realm/models"
	realmservice "authgate/internal/realm/service"
	realmstore "authgate/internal/realm/store"
	sessionstore "authgate/internal/session/store"
	"authgate/internal/token"
	httpapi "authgate/internal/transport/http"
	"authgate/pkg/secrets"
)

const codeSweepInterval = time.Minute

func main() {
	log := logger.New()
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Realm directory: postgres when a DSN is configured, in-memory otherwise.
	var realms realmservice.RealmStore
	var users httpapi.UserFinder
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		realms = realmstore.NewPostgres(db)
		users = realmstore.NewInMemoryUsers()
	} else {
		memory := realmstore.NewInMemory()
		memoryUsers := realmstore.NewInMemoryUsers()
		if err := seedMasterRealm(ctx, memory, memoryUsers); err != nil {
			log.Error("failed to seed master realm", "error", err)
			os.Exit(1)
		}
		realms = memory
		users = memoryUsers
	}

	// Session gateway: redis when an address is configured.
	var sessions sessionstore.Gateway = sessionstore.NewInMemory()
	if cfg.RedisAddr != "" {
		client, err := platformredis.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		sessions = sessionstore.NewRedis(client)
	}

	// Audit pipeline: structured log sink always, kafka sink when brokers are
	// configured, drained asynchronously off the request path.
	sinks := []audit.Publisher{audit.NewLogPublisher(log)}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, audit.DefaultTopic)
		if err != nil {
			log.Error("failed to create kafka publisher", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
		sinks = append(sinks, kafka)
	}
	auditWorker := audit.NewAsync(audit.NewFanout(sinks...), log, 0)

	codes := authcode.NewInMemoryStore()
	issuer := authcode.NewIssuer(codes, sessions, config.AccessCodeTTL)

	directory := realmservice.New(realms,
		realmservice.WithLogger(log),
		realmservice.WithMetrics(realmmetrics.New()),
	)
	flows := flow.New(issuer, sessions,
		flow.WithLogger(log),
		flow.WithAudit(auditWorker),
		flow.WithMetrics(flowmetrics.New()),
	)
	exchanger := token.NewExchanger(codes, sessions,
		token.NewMinter(cfg.JWTSigningKey, cfg.Issuer),
		token.WithLogger(log),
	)

	handler := httpapi.New(directory, users, flows, exchanger, sessions,
		httpapi.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Use(httpapi.RequestContext)
	router.Handle("/metrics", promhttp.Handler())
	handler.Register(router)

	server := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		return sweepExpiredCodes(gctx, codes, log)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// sweepExpiredCodes removes abandoned access codes past their exchange window.
func sweepExpiredCodes(ctx context.Context, codes *authcode.InMemoryStore, log *slog.Logger) error {
	ticker := time.NewTicker(codeSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if deleted, err := codes.DeleteExpired(ctx, now); err == nil && deleted > 0 {
				log.Debug("swept expired access codes", "deleted", deleted)
			}
		}
	}
}

// seedMasterRealm provisions a development realm so a fresh in-memory process
// is usable without an admin surface.
func seedMasterRealm(ctx context.Context, realms *realmstore.InMemory, users *realmstore.InMemoryUsers) error {
	realm, err := realmmodels.NewRealm("master")
	if err != nil {
		return err
	}

	app, err := realmmodels.NewClient(realm.Name, "demo-app", "Demo Application",
		[]string{"https://app.local/callback"})
	if err != nil {
		return err
	}
	app.WebOrigins = []string{"https://app.local"}
	secretHash, err := secrets.Hash("demo-secret")
	if err != nil {
		return err
	}
	app.SecretHash = secretHash
	realm.AddClient(app)

	account, err := realmmodels.NewClient(realm.Name, "account-console", realmmodels.AccountApplication, nil)
	if err != nil {
		return err
	}
	realm.AddClient(account)

	if err := realms.Create(ctx, realm); err != nil {
		return err
	}

	admin := &realmmodels.User{
		ID:            uuid.New(),
		Email:         "admin@local",
		EmailVerified: true,
		Roles: []realmmodels.Role{
			{Name: "admin"},
			{Name: "manage-account", Application: realmmodels.AccountApplication},
		},
	}
	return users.CreateUser(ctx, realm.Name, admin)
}
