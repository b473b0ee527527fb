// Package auth handles registration and login against the persisted user map.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/store"
)

// EventPublisher announces successful registrations on the event bus.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error
}

// Session is the explicit handle to an authenticated user. There is no
// ambient "current user": callers pass the session's user to every
// service call.
type Session struct {
	User *core.User
}

// Service performs registration and login. The user map is owned by the
// caller and rewritten to the store after successful registration.
type Service struct {
	store    store.Store
	verifier Verifier
	events   EventPublisher
}

func NewService(st store.Store, verifier Verifier, events EventPublisher) *Service {
	if verifier == nil {
		verifier = PlainVerifier{}
	}
	return &Service{store: st, verifier: verifier, events: events}
}

// Register creates a new user with empty ledgers and a zero budget, inserts
// it into users and persists the map. Validation failures leave users and
// the store untouched.
func (s *Service) Register(ctx context.Context, users map[string]*core.User, username, password string) (*core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, core.ErrEmptyUsername
	}
	if _, exists := users[username]; exists {
		return nil, fmt.Errorf("%w: %q", core.ErrDuplicateUsername, username)
	}

	stored, err := s.verifier.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := core.NewUser(username, stored)
	users[username] = u
	if err := s.store.Save(ctx, users); err != nil {
		delete(users, username)
		return nil, err
	}

	if s.events != nil {
		msg := amqp.NewLedgerEventMessage(amqp.EventUserRegistered, username)
		if err := s.events.PublishLedgerEvent(ctx, msg); err != nil {
			// The user is already persisted; losing one event is acceptable.
			slog.ErrorContext(ctx, "Failed to publish registration event",
				"username", username, "error", err)
		}
	}

	slog.InfoContext(ctx, "User registered", "username", username)
	return u, nil
}

// Login checks credentials and returns a session. Unknown usernames and
// password mismatches are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, users map[string]*core.User, username, password string) (*Session, error) {
	u, ok := users[strings.TrimSpace(username)]
	if !ok || !s.verifier.Verify(u.Password, password) {
		return nil, core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User logged in", "username", u.Username)
	return &Session{User: u}, nil
}
