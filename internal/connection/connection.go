// Package connection implements the request pipeline every resource client
// goes through: request target, credential headers, dispatch, instrumentation
// and error classification.
package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/google/uuid"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedParams = errors.New("unsupported query parameters")
)

// Options configures a Connection.
type Options struct {
	Host       string
	Port       int
	Scheme     string
	PathPrefix string

	Username         string
	Password         string
	Token            string
	MasterLicenseKey string

	// VerifyHTTPS defaults to true when nil.
	VerifyHTTPS *bool

	Logger       code42.Logger
	Instrumenter code42.Instrumenter
}

// Connection implements code42.Connection on top of a code42.Transport.
//
// The credential setters are independent: a token, basic credentials and a
// master license key can all be configured at once, each writing its own
// headers. Token and basic auth share the Authorization header, so the one set
// last is the one the server sees.
//
// A Connection keeps the last response in a single slot and is not safe for
// concurrent use.
type Connection struct {
	transport    code42.Transport
	logger       code42.Logger
	instrumenter code42.Instrumenter

	host       string
	port       int
	scheme     string
	pathPrefix string

	username         string
	password         string
	token            string
	masterLicenseKey string

	lastResponse *code42.Response
}

var _ code42.Connection = (*Connection)(nil)

// New creates a connection that sends requests through transport.
func New(transport code42.Transport, opts Options) *Connection {
	c := &Connection{
		transport:    transport,
		logger:       opts.Logger,
		instrumenter: opts.Instrumenter,
		host:         opts.Host,
		port:         opts.Port,
		scheme:       opts.Scheme,
		pathPrefix:   opts.PathPrefix,
	}

	c.updateBaseURL()

	c.SetUsername(opts.Username)
	c.SetPassword(opts.Password)

	if opts.Token != "" {
		c.SetToken(opts.Token)
	}

	if opts.MasterLicenseKey != "" {
		c.SetMasterLicenseKey(opts.MasterLicenseKey)
	}

	verify := true
	if opts.VerifyHTTPS != nil {
		verify = *opts.VerifyHTTPS
	}

	c.SetVerifyHTTPS(verify)

	return c
}

// Host returns the request target host.
func (c *Connection) Host() string { return c.host }

// Port returns the request target port.
func (c *Connection) Port() int { return c.port }

// Scheme returns the request target scheme.
func (c *Connection) Scheme() string { return c.scheme }

// PathPrefix returns the path request paths are joined to.
func (c *Connection) PathPrefix() string { return c.pathPrefix }

// SetHost changes the request target host.
func (c *Connection) SetHost(host string) {
	c.host = host
	c.updateBaseURL()
}

// SetPort changes the request target port.
func (c *Connection) SetPort(port int) {
	c.port = port
	c.updateBaseURL()
}

// SetScheme changes the request target scheme.
func (c *Connection) SetScheme(scheme string) {
	c.scheme = scheme
	c.updateBaseURL()
}

// SetPathPrefix changes the path request paths are joined to.
func (c *Connection) SetPathPrefix(prefix string) {
	c.pathPrefix = prefix
	c.updateBaseURL()
}

// BaseURL returns the URL built from the request target.
func (c *Connection) BaseURL() string {
	scheme := c.scheme
	if scheme == "" {
		scheme = constants.DefaultScheme
	}

	host := c.host
	if c.port != 0 {
		host = net.JoinHostPort(c.host, strconv.Itoa(c.port))
	}

	target := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   "/" + strings.Trim(c.pathPrefix, "/"),
	}

	return strings.TrimSuffix(target.String(), "/")
}

func (c *Connection) updateBaseURL() {
	c.transport.SetBaseURL(c.BaseURL())
}

// SetToken sends "Authorization: TOKEN <token>" and disables the server's
// authentication challenge.
func (c *Connection) SetToken(token string) {
	c.token = token
	c.transport.SetHeader(constants.HeaderAuthorizationChallenge, "false")
	c.transport.SetHeader(constants.HeaderAuthorization, constants.TokenAuthPrefix+token)
}

// Token returns the configured token.
func (c *Connection) Token() string { return c.token }

// SetMasterLicenseKey sends the master license key header.
func (c *Connection) SetMasterLicenseKey(key string) {
	c.masterLicenseKey = key
	c.transport.SetHeader(constants.HeaderMasterLicenseKey, constants.MasterLicensePrefix+key)
}

// MasterLicenseKey returns the configured master license key.
func (c *Connection) MasterLicenseKey() string { return c.masterLicenseKey }

// SetUsername sets the basic auth user. Basic auth is configured on the
// transport once both username and password are present.
func (c *Connection) SetUsername(username string) {
	c.username = username
	c.applyBasicAuth()
}

// Username returns the basic auth user.
func (c *Connection) Username() string { return c.username }

// SetPassword sets the basic auth password.
func (c *Connection) SetPassword(password string) {
	c.password = password
	c.applyBasicAuth()
}

// HasValidCredentials reports whether both username and password are set.
func (c *Connection) HasValidCredentials() bool {
	return c.username != "" && c.password != ""
}

func (c *Connection) applyBasicAuth() {
	if c.HasValidCredentials() {
		c.transport.SetBasicAuth(c.username, c.password)
	}
}

// SetVerifyHTTPS toggles server certificate verification.
func (c *Connection) SetVerifyHTTPS(verify bool) {
	c.transport.SetTLSVerify(verify)
}

// VerifyHTTPS reports whether server certificates are verified.
func (c *Connection) VerifyHTTPS() bool {
	return c.transport.TLSVerify()
}

// Transport returns the underlying transport for operations the connection
// does not cover.
func (c *Connection) Transport() code42.Transport {
	return c.transport
}

// LastResponse returns the most recent response the transport produced.
func (c *Connection) LastResponse() *code42.Response {
	return c.lastResponse
}

// MakeRequest sends a request and returns the decoded response body.
//
// For GET and DELETE the payload becomes the query string; for other methods
// it is the request body. Every call emits exactly one instrumentation event.
// Connectivity failures are returned as ConnectionFailed without looking at a
// response; otherwise a response with status >= 400 is classified and the
// resulting error returned.
func (c *Connection) MakeRequest(ctx context.Context, method, path string, payload any) (any, error) {
	start := time.Now()

	req, err := buildRequest(method, path, payload)
	if err != nil {
		c.instrument(ctx, newEvent(req, payload, nil, err, start))

		return nil, err
	}

	resp, err := c.transport.Do(ctx, req)

	if resp != nil {
		c.lastResponse = resp
	}

	c.instrument(ctx, newEvent(req, payload, resp, err, start))

	if err != nil {
		if ctx.Err() == nil && isConnectivityFailure(err) {
			c.logError("Request failed", req, err)

			return nil, code42.NewConnectionFailed(err)
		}

		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}

	err = code42.Classify(resp.StatusCode, resp.Body)
	if err != nil {
		c.logError("Request returned an error", req, err)

		return nil, err
	}

	return resp.Body, nil
}

func newEvent(req *code42.Request, payload any, resp *code42.Response, err error, start time.Time) *code42.Event {
	return &code42.Event{
		ID:       uuid.NewString(),
		Name:     code42.RequestEvent,
		Method:   req.Method,
		Args:     []any{req.Path, payload},
		Response: resp,
		Err:      err,
		Start:    start,
		Duration: time.Since(start),
	}
}

func (c *Connection) instrument(ctx context.Context, event *code42.Event) {
	if c.instrumenter == nil {
		return
	}

	c.instrumenter.Instrument(ctx, event)
}

func (c *Connection) logError(msg string, req *code42.Request, err error) {
	if c.logger == nil {
		return
	}

	c.logger.Error(msg, map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
		"error":  err.Error(),
	})
}

func buildRequest(method, path string, payload any) (*code42.Request, error) {
	req := &code42.Request{
		Method: strings.ToUpper(method),
		Path:   path,
	}

	switch req.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		query, err := toQuery(payload)
		if err != nil {
			return req, err
		}

		req.Query = query
	default:
		req.Body = payload
	}

	return req, nil
}

func toQuery(payload any) (url.Values, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil //nolint:nilnil // no parameters
	case url.Values:
		return p, nil
	case map[string]string:
		query := make(url.Values, len(p))
		for key, value := range p {
			query.Set(key, value)
		}

		return query, nil
	case map[string]any:
		keys := make([]string, 0, len(p))
		for key := range p {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		query := make(url.Values, len(p))
		for _, key := range keys {
			query.Set(key, fmt.Sprint(p[key]))
		}

		return query, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedParams, payload)
	}
}

// isConnectivityFailure matches dial and DNS failures. A bare *url.Error may
// be a parse error and does not count.
func isConnectivityFailure(err error) bool {
	if errors.Is(err, code42.ErrConnectionFailed) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError

	return errors.As(err, &dnsErr)
}
