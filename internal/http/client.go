package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedBody = errors.New("unsupported request body")
)

// Client is the default code42.Transport. It sends requests with
// go-retryablehttp; retries are off unless WithRetryConfig is used.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	headers    http.Header
	httpClient *retryablehttp.Client
	transport  *http.Transport
	logger     code42.Logger
	userAgent  string
	debug      bool
}

// Option configures the HTTP client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger code42.Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the user agent.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets retry configuration.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-attempt timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a new HTTP client.
func NewClient(baseURL string, opts ...Option) *Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   constants.DefaultHTTPTimeout,
	}
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	// The last response is handed back as-is so the caller can classify it.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		headers:    make(http.Header),
		httpClient: retryClient,
		transport:  transport,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetBaseURL implements code42.Transport.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// BaseURL returns the URL request paths are joined to.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.baseURL
}

// SetHeader implements code42.Transport. The header is sent with every
// request; setting a header again replaces the previous value.
func (c *Client) SetHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.headers.Set(name, value)
}

// Header returns the value of a default header.
func (c *Client) Header(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.headers.Get(name)
}

// SetBasicAuth implements code42.Transport. It writes the Authorization
// header, replacing a token set earlier.
func (c *Client) SetBasicAuth(username, password string) {
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	c.SetHeader(constants.HeaderAuthorization, constants.BasicAuthPrefix+credentials)
}

// SetTLSVerify implements code42.Transport.
func (c *Client) SetTLSVerify(verify bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tlsConfig := c.transport.TLSClientConfig.Clone()
	tlsConfig.InsecureSkipVerify = !verify //nolint:gosec // opt-in via Config.VerifyHTTPS
	c.transport.TLSClientConfig = tlsConfig
	c.transport.CloseIdleConnections()
}

// TLSVerify implements code42.Transport.
func (c *Client) TLSVerify() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.transport.TLSClientConfig.InsecureSkipVerify
}

// Do implements code42.Transport.
func (c *Client) Do(ctx context.Context, req *code42.Request) (*code42.Response, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	target := c.buildURL(req.Path, req.Query)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.applyHeaders(httpReq, req, contentType)

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    target,
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("executing request: %w", ctx.Err())
		}

		return nil, fmt.Errorf("%w: %w", code42.ErrConnectionFailed, err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", code42.ErrConnectionFailed, err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    target,
			"bytes":  len(raw),
		})
	}

	return &code42.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       decodeBody(resp.Header.Get(constants.HeaderContentType), raw),
		Raw:        raw,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*code42.Response, error) {
	return c.Do(ctx, &code42.Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (*code42.Response, error) {
	return c.Do(ctx, &code42.Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*code42.Response, error) {
	return c.Do(ctx, &code42.Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*code42.Response, error) {
	return c.Do(ctx, &code42.Request{Method: http.MethodDelete, Path: path, Query: query})
}

func (c *Client) buildURL(path string, query url.Values) string {
	c.mu.RLock()
	base := c.baseURL
	c.mu.RUnlock()

	target := base + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return target
}

func (c *Client) applyHeaders(httpReq *retryablehttp.Request, req *code42.Request, contentType string) {
	c.mu.RLock()
	for name, values := range c.headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	c.mu.RUnlock()

	httpReq.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	httpReq.Header.Set(constants.HeaderUserAgent, c.userAgent)

	if contentType != "" {
		httpReq.Header.Set(constants.HeaderContentType, contentType)
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
}

// encodeBody encodes a request body as JSON, or as multipart/form-data when a
// map body carries a FilePart.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("reading request body: %w", err)
		}

		return data, "", nil
	case map[string]any:
		if hasFilePart(b) {
			return encodeMultipart(b)
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedBody, err)
	}

	return data, constants.ContentTypeJSON, nil
}

func hasFilePart(body map[string]any) bool {
	for _, value := range body {
		switch value.(type) {
		case code42.FilePart, *code42.FilePart:
			return true
		}
	}

	return false
}

func encodeMultipart(body map[string]any) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(body))
	for key := range body {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		err := writePart(writer, key, body[key])
		if err != nil {
			return nil, "", err
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

func writePart(writer *multipart.Writer, key string, value any) error {
	var part *code42.FilePart

	switch v := value.(type) {
	case code42.FilePart:
		part = &v
	case *code42.FilePart:
		part = v
	default:
		err := writer.WriteField(key, fmt.Sprint(value))
		if err != nil {
			return fmt.Errorf("writing field %s: %w", key, err)
		}

		return nil
	}

	dst, err := writer.CreateFormFile(key, part.FileName)
	if err != nil {
		return fmt.Errorf("creating file part %s: %w", key, err)
	}

	_, err = io.Copy(dst, part.Reader)
	if err != nil {
		return fmt.Errorf("copying file part %s: %w", key, err)
	}

	return nil
}

// decodeBody decodes JSON payloads; anything else is returned as a string.
func decodeBody(contentType string, raw []byte) any {
	if len(raw) == 0 {
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	looksJSON := len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')

	if strings.Contains(contentType, "json") || looksJSON {
		var decoded any

		err := json.Unmarshal(raw, &decoded)
		if err == nil {
			return decoded
		}
	}

	return string(raw)
}

// leveledLogger adapts code42.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger code42.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
