package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/code42/code42-go/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errLogin = errors.New("AuthenticationError (status: 401)")
	errDisk  = errors.New("read-only file system")
)

type countingSource struct {
	calls  int
	tokens []string
	err    error
}

func (s *countingSource) AuthToken(_ context.Context) (string, error) {
	s.calls++

	if s.err != nil {
		return "", s.err
	}

	return s.tokens[(s.calls-1)%len(s.tokens)], nil
}

type memoryPersister struct {
	saved map[string]string
	err   error
}

func (p *memoryPersister) SaveToken(host, token string) error {
	if p.err != nil {
		return p.err
	}

	if p.saved == nil {
		p.saved = make(map[string]string)
	}

	p.saved[host] = token

	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestTokenManager_GetToken(t *testing.T) {
	t.Parallel()

	t.Run("fetches once and caches", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{tokens: []string{"first-second"}}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "first-second", token)

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "first-second", token)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("returns a token set from configuration", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{tokens: []string{"fresh-token"}}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com")
		manager.SetToken("stored-token")

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "stored-token", token)
		assert.Zero(t, source.calls)
	})

	t.Run("fetches again once the max age passed", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
		source := &countingSource{tokens: []string{"one", "two"}}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com",
			auth.WithMaxAge(30*time.Minute),
			auth.WithClock(clock.Now),
		)

		token, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "one", token)

		clock.now = clock.now.Add(20 * time.Minute)
		assert.False(t, manager.IsTokenExpiringSoon(5*time.Minute))
		assert.True(t, manager.IsTokenExpiringSoon(15*time.Minute))

		clock.now = clock.now.Add(11 * time.Minute)

		token, err = manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "two", token)
		assert.Equal(t, clock.now, manager.ObtainedAt())
	})

	t.Run("propagates source errors", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{err: errLogin}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com")

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, errLogin)
		assert.True(t, manager.IsTokenExpiringSoon(0))
	})

	t.Run("rejects empty tokens", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{tokens: []string{""}}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com")

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrEmptyToken)
	})

	t.Run("requires a source", func(t *testing.T) {
		t.Parallel()

		manager := auth.NewTokenManager(nil, "console.example.com")

		_, err := manager.GetToken(context.Background())
		require.ErrorIs(t, err, auth.ErrNoTokenSource)
	})
}

func TestTokenManager_RefreshToken(t *testing.T) {
	t.Parallel()

	t.Run("persists fetched tokens", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{tokens: []string{"one", "two"}}
		persister := &memoryPersister{}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com", auth.WithPersister(persister))
		manager.SetToken("stored-token")

		assert.Empty(t, persister.saved)

		token, err := manager.RefreshToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "one", token)
		assert.Equal(t, map[string]string{"console.example.com": "one"}, persister.saved)
	})

	t.Run("returns the token with a persist error", func(t *testing.T) {
		t.Parallel()

		source := &countingSource{tokens: []string{"one"}}
		persister := &memoryPersister{err: errDisk}
		manager := auth.NewTokenManager(source.AuthToken, "console.example.com", auth.WithPersister(persister))

		token, err := manager.RefreshToken(context.Background())
		require.ErrorIs(t, err, errDisk)
		assert.Equal(t, "one", token)

		cached, err := manager.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "one", cached)
	})
}
