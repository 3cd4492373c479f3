package client

import (
	"net"
	"net/url"
	"strconv"

	"github.com/code42/code42-go/internal/connection"
	internalhttp "github.com/code42/code42-go/internal/http"
	"github.com/code42/code42-go/pkg/code42"
)

// NewTestClient creates a client targeting serverURL (typically an httptest
// server) with no path prefix.
func NewTestClient(serverURL string, instrumenter code42.Instrumenter) (*Client, *connection.Connection) {
	u, err := url.Parse(serverURL)
	if err != nil {
		panic(err)
	}

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		host = u.Host
	}

	port, _ := strconv.Atoi(portStr)

	conn := connection.New(internalhttp.NewClient(serverURL), connection.Options{
		Scheme:       u.Scheme,
		Host:         host,
		Port:         port,
		Instrumenter: instrumenter,
	})

	client, err := New(conn)
	if err != nil {
		panic(err)
	}

	return client, conn
}
