// Package auth manages the login tokens the server hands out in exchange for
// basic credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenSource = errors.New("no token source configured")
	ErrEmptyToken    = errors.New("token source returned an empty token")
)

// TokenSource obtains a new login token, typically code42.Client.AuthToken.
type TokenSource func(ctx context.Context) (string, error)

// TokenPersister stores a token for later runs.
type TokenPersister interface {
	SaveToken(host, token string) error
}

// TokenManager caches a login token and fetches a new one from its source
// when none is held or the held one is older than the configured max age.
// Every token it fetches is handed to the persister.
type TokenManager struct {
	source    TokenSource
	persister TokenPersister
	host      string
	maxAge    time.Duration
	now       func() time.Time

	mutex      sync.Mutex
	token      string
	obtainedAt time.Time
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithMaxAge makes tokens older than maxAge count as expired. Zero keeps a
// token until RefreshToken is called.
func WithMaxAge(maxAge time.Duration) Option {
	return func(m *TokenManager) {
		m.maxAge = maxAge
	}
}

// WithPersister stores every fetched token with persister.
func WithPersister(persister TokenPersister) Option {
	return func(m *TokenManager) {
		m.persister = persister
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) {
		m.now = now
	}
}

// NewTokenManager creates a manager for tokens issued by host.
func NewTokenManager(source TokenSource, host string, opts ...Option) *TokenManager {
	m := &TokenManager{
		source: source,
		host:   host,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// GetToken returns the cached token, fetching a new one when needed.
func (m *TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.token != "" && !m.expiredLocked(0) {
		return m.token, nil
	}

	return m.refreshLocked(ctx)
}

// RefreshToken fetches a new token regardless of the cached one.
func (m *TokenManager) RefreshToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.refreshLocked(ctx)
}

// SetToken replaces the cached token, for example with one loaded from
// configuration. It is not persisted.
func (m *TokenManager) SetToken(token string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = token
	m.obtainedAt = m.now()
}

// IsTokenExpiringSoon reports whether the token is missing or will pass its
// max age within the given duration.
func (m *TokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.token == "" || m.expiredLocked(within)
}

// ObtainedAt returns when the cached token was fetched or set.
func (m *TokenManager) ObtainedAt() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.obtainedAt
}

func (m *TokenManager) expiredLocked(within time.Duration) bool {
	if m.maxAge == 0 {
		return false
	}

	return m.now().Add(within).After(m.obtainedAt.Add(m.maxAge))
}

func (m *TokenManager) refreshLocked(ctx context.Context) (string, error) {
	if m.source == nil {
		return "", ErrNoTokenSource
	}

	token, err := m.source(ctx)
	if err != nil {
		return "", fmt.Errorf("obtaining token: %w", err)
	}

	if token == "" {
		return "", ErrEmptyToken
	}

	m.token = token
	m.obtainedAt = m.now()

	if m.persister != nil {
		err = m.persister.SaveToken(m.host, token)
		if err != nil {
			return token, fmt.Errorf("persisting token: %w", err)
		}
	}

	return token, nil
}
