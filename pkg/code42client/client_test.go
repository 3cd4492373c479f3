package code42client_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/code42/code42-go/pkg/code42"
	"github.com/code42/code42-go/pkg/code42client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverConfig(t *testing.T, serverURL string) *code42.Config {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)

	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &code42.Config{
		Host:   host,
		Port:   port,
		Scheme: u.Scheme,
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires host", func(t *testing.T) {
		t.Parallel()

		_, err := code42client.New(&code42.Config{})
		require.Error(t, err)
		assert.ErrorIs(t, err, code42.ErrInvalidConfig)
	})

	t.Run("rejects nil config", func(t *testing.T) {
		t.Parallel()

		_, err := code42client.New(nil)
		require.Error(t, err)
	})

	t.Run("rejects unknown scheme", func(t *testing.T) {
		t.Parallel()

		_, err := code42client.New(&code42.Config{Host: "console.example.com", Scheme: "ftp"})
		require.Error(t, err)
		assert.ErrorIs(t, err, code42.ErrInvalidConfig)
	})

	t.Run("creates client with token", func(t *testing.T) {
		t.Parallel()

		client, err := code42client.NewWithToken("console.example.com", "abc-def")
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.NotNil(t, client.Orgs())
		assert.NotNil(t, client.Roles())
		assert.False(t, client.Connection().HasValidCredentials())
	})

	t.Run("creates client with username/password", func(t *testing.T) {
		t.Parallel()

		client, err := code42client.NewWithPassword("console.example.com", "admin", "secret")
		require.NoError(t, err)
		assert.True(t, client.Connection().HasValidCredentials())
		assert.True(t, client.Connection().VerifyHTTPS())
	})

	t.Run("disables certificate verification", func(t *testing.T) {
		t.Parallel()

		verify := false
		client, err := code42client.New(&code42.Config{Host: "10.0.0.1", VerifyHTTPS: &verify})
		require.NoError(t, err)
		assert.False(t, client.Connection().VerifyHTTPS())
	})
}

func TestNew_DefaultPathPrefix(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/org/my", request.URL.Path)
		assert.Equal(t, "TOKEN abc-def", request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]any{
			"data": map[string]any{"orgId": 42, "orgName": "Acme"},
		})
	}))
	defer server.Close()

	config := serverConfig(t, server.URL)
	config.Token = "abc-def"

	client, err := code42client.New(config)
	require.NoError(t, err)

	org, err := client.Orgs().Get(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), org.ID)
	assert.Equal(t, "Acme", org.Name)
}

func TestNew_TokenAppliedAfterBasicAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "TOKEN abc-def", request.Header.Get("Authorization"))
		assert.Equal(t, "false", request.Header.Get("Authorization-Challenge"))

		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := serverConfig(t, server.URL)
	config.PathPrefix = "/"
	config.Username = "admin"
	config.Password = "secret"
	config.Token = "abc-def"

	client, err := code42client.New(config)
	require.NoError(t, err)
	assert.True(t, client.Connection().HasValidCredentials())

	require.NoError(t, client.Ping(context.Background()))
}

func TestNew_Instrumentation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var events atomic.Int32

	registry := prometheus.NewRegistry()

	config := serverConfig(t, server.URL)
	config.PathPrefix = "/"
	config.MetricsRegisterer = registry
	config.Instrumenter = code42.InstrumenterFunc(func(_ context.Context, event *code42.Event) {
		events.Add(1)
		assert.Equal(t, http.StatusNotFound, event.Status())
	})

	client, err := code42client.New(config)
	require.NoError(t, err)

	_, err = client.Orgs().Get(context.Background(), "7", nil)
	require.Error(t, err)
	assert.True(t, code42.IsNotFound(err))

	assert.Equal(t, int32(1), events.Load())

	count, err := testutil.GatherAndCount(registry, "code42_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
