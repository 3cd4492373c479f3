package code42

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request is a single call handed to a Transport. Path is relative to the
// transport's base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// Response is the transport's view of a completed HTTP exchange. Body holds
// the decoded payload: JSON values for JSON responses, a string otherwise.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       any
	Raw        []byte
}

// FilePart is an upload inside a request body. A body map holding a FilePart
// value is sent as multipart/form-data instead of JSON.
type FilePart struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// Transport is the narrow HTTP surface a Connection needs. Implementations
// must report connectivity failures (DNS, refused connections, TLS errors)
// with an error that wraps ErrConnectionFailed, and must return a Response
// for every status code.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
	SetBaseURL(baseURL string)
	SetHeader(name, value string)
	SetBasicAuth(username, password string)
	SetTLSVerify(verify bool)
	TLSVerify() bool
}
