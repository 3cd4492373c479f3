package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/code42/code42-go/internal/client"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventRecorder collects instrumentation events.
type eventRecorder struct {
	events []*code42.Event
}

func (r *eventRecorder) Instrument(_ context.Context, event *code42.Event) {
	r.events = append(r.events, event)
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrConnectionRequired)
}

func TestClient_ResourceAccessors(t *testing.T) {
	t.Parallel()

	client, conn := NewTestClient("http://127.0.0.1:4280", nil)

	assert.NotNil(t, client.Orgs())
	assert.NotNil(t, client.Roles())
	assert.Same(t, conn, client.Connection())
	assert.Equal(t, "http://127.0.0.1:4280", conn.BaseURL())
}

func TestClient_AuthToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/authToken", request.URL.Path)
		assert.Equal(t, http.MethodPost, request.Method)

		username, password, ok := request.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)

		writeJSON(writer, http.StatusOK, map[string]any{"data": []string{"first", "second"}})
	}))
	defer server.Close()

	client, conn := NewTestClient(server.URL, nil)
	conn.SetUsername("admin")
	conn.SetPassword("secret")

	token, err := client.AuthToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first-second", token)
}

func TestClient_AuthTokenMalformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusOK, map[string]any{"data": "nope"})
	}))
	defer server.Close()

	client, _ := NewTestClient(server.URL, nil)

	_, err := client.AuthToken(context.Background())
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestClient_AuthTokenRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, http.StatusUnauthorized, []map[string]any{{"name": "SYSTEM", "description": "bad credentials"}})
	}))
	defer server.Close()

	client, _ := NewTestClient(server.URL, nil)

	_, err := client.AuthToken(context.Background())
	require.Error(t, err)
	assert.True(t, code42.IsAuthentication(err))
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/ping", request.URL.Path)
		assert.Equal(t, "TOKEN abc-def", request.Header.Get("Authorization"))
		assert.Equal(t, "false", request.Header.Get("Authorization-Challenge"))

		writeJSON(writer, http.StatusOK, map[string]any{"data": map[string]any{"success": true}})
	}))
	defer server.Close()

	events := &eventRecorder{}
	client, conn := NewTestClient(server.URL, events)
	conn.SetToken("abc-def")

	require.NoError(t, client.Ping(context.Background()))
	require.Len(t, events.events, 1)
	assert.Same(t, conn.LastResponse(), events.events[0].Response)
}

func TestClient_PingConnectionFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	events := &eventRecorder{}
	client, conn := NewTestClient(serverURL, events)

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, code42.IsConnectionFailed(err))
	assert.Nil(t, conn.LastResponse())
	require.Len(t, events.events, 1)
	assert.Nil(t, events.events[0].Response)
}
