package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	PostgresDSN   string
	RedisAddr     string
	KafkaBrokers  []string
	JWTSigningKey string
	Issuer        string
}

// AccessCodeTTL bounds the exchange window for issued authorization codes.
var AccessCodeTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
// Empty PostgresDSN/RedisAddr/KafkaBrokers select the in-memory equivalents.
func FromEnv() Server {
	addr := os.Getenv("AUTHGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default; must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("AUTHGATE_ISSUER")
	if issuer == "" {
		issuer = "authgate"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Server{
		Addr:          addr,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		KafkaBrokers:  brokers,
		JWTSigningKey: jwtSigningKey,
		Issuer:        issuer,
	}
}
