package authcode

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"authgate/pkg/platform/sentinel"
)

// translateConsumeError converts ValidateForConsume errors to sentinel errors
// per the store boundary contract.
func translateConsumeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "expired"):
		return fmt.Errorf("%s: %w", msg, sentinel.ErrExpired)
	case strings.Contains(msg, "already used"):
		return fmt.Errorf("%s: %w", msg, sentinel.ErrAlreadyUsed)
	default:
		return fmt.Errorf("%s: %w", msg, sentinel.ErrInvalidState)
	}
}

// InMemoryStore keeps access codes in memory. Codes are short-lived, so a
// process-local store is the default even in multi-store deployments.
type InMemoryStore struct {
	mu    sync.Mutex
	codes map[string]*AccessCode
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{codes: make(map[string]*AccessCode)}
}

func (s *InMemoryStore) Create(_ context.Context, code *AccessCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.Code] = code
	return nil
}

func (s *InMemoryStore) FindByCode(_ context.Context, code string) (*AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.codes[code]; ok {
		return record, nil
	}
	return nil, fmt.Errorf("access code not found: %w", sentinel.ErrNotFound)
}

// Execute atomically runs validate then mutate on the record while holding
// the store lock. The record is returned even when validation fails so
// callers can detect replay against an already-used code.
func (s *InMemoryStore) Execute(_ context.Context, code string, validate func(*AccessCode) error, mutate func(*AccessCode)) (*AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[code]
	if !ok {
		return nil, fmt.Errorf("access code not found: %w", sentinel.ErrNotFound)
	}
	if err := validate(record); err != nil {
		return record, translateConsumeError(err)
	}
	mutate(record)
	return record, nil
}

// DeleteExpired removes all codes past their exchange window as of now.
// Time is injected for testability.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for code, record := range s.codes {
		if record.ExpiresAt.Before(now) {
			delete(s.codes, code)
			deleted++
		}
	}
	return deleted, nil
}
