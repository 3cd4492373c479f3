package code42

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Kind identifies a class of failure. Kinds are comparable sentinels: use
// errors.Is(err, code42.ErrResourceNotFound) to branch on them.
type Kind struct {
	name string
}

// Error implements the error interface.
func (k *Kind) Error() string {
	return k.name
}

// Name returns the kind identifier, e.g. "ResourceNotFound".
func (k *Kind) Name() string {
	return k.name
}

var (
	kindsMu sync.RWMutex
	kinds   = make(map[string]*Kind)
)

// RegisterErrorKind adds a server-declared error kind to the taxonomy and
// returns it. Registering a name twice returns the existing kind. Server error
// names are matched ignoring case and separators, so "INVALID_TOKEN",
// "invalidToken" and "InvalidToken" all resolve to the same kind.
func RegisterErrorKind(name string) *Kind {
	key := kindKey(name)

	kindsMu.Lock()
	defer kindsMu.Unlock()

	if kind, ok := kinds[key]; ok {
		return kind
	}

	kind := &Kind{name: name}
	kinds[key] = kind

	return kind
}

// LookupErrorKind returns the registered kind for a server error name.
func LookupErrorKind(name string) (*Kind, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()

	kind, ok := kinds[kindKey(name)]

	return kind, ok
}

func kindKey(name string) string {
	return strings.ToLower(strings.Join(splitWords(name), ""))
}

// Fixed kinds.
var (
	ErrConnectionFailed = RegisterErrorKind("ConnectionFailed")
	ErrAuthentication   = RegisterErrorKind("AuthenticationError")
	ErrAuthorization    = RegisterErrorKind("AuthorizationError")
	ErrResourceNotFound = RegisterErrorKind("ResourceNotFound")
	ErrServerError      = RegisterErrorKind("ServerError")
)

// Server-declared kinds known to this client.
var (
	ErrInvalidToken        = RegisterErrorKind("InvalidToken")
	ErrEmailInvalid        = RegisterErrorKind("EmailInvalid")
	ErrUsernameInvalid     = RegisterErrorKind("UsernameInvalid")
	ErrUsernameNotAnEmail  = RegisterErrorKind("UsernameNotAnEmail")
	ErrPasswordInvalid     = RegisterErrorKind("PasswordInvalid")
	ErrDuplicateOrgName    = RegisterErrorKind("DuplicateOrgName")
	ErrInternalServerError = RegisterErrorKind("InternalServerError")
)

// Error is returned for every failed request. Kind is nil for the generic
// error raised when a failed response carries nothing to classify.
//
// Description holds the server's human-readable message verbatim; Message
// returns it. Error() prefixes it with the kind name and appends the status.
type Error struct {
	Kind        *Kind
	Name        string
	Status      int
	Description string
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == nil {
		return fmt.Sprintf("Status: %d", e.Status)
	}

	var b strings.Builder

	b.WriteString(e.Name)

	switch {
	case e.Description != "":
		b.WriteString(": ")
		b.WriteString(e.Description)
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if e.Status != 0 {
		fmt.Fprintf(&b, " (status: %d)", e.Status)
	}

	return b.String()
}

// Message returns the text meant for display: the server's description when
// it sent one, otherwise the underlying error or the bare status.
func (e *Error) Message() string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Err != nil:
		return e.Err.Error()
	case e.Kind != nil:
		return e.Name
	default:
		return fmt.Sprintf("Status: %d", e.Status)
	}
}

// Unwrap exposes the kind and any underlying transport error.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}

	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// NewConnectionFailed wraps a transport-level failure.
func NewConnectionFailed(err error) *Error {
	return &Error{
		Kind: ErrConnectionFailed,
		Name: ErrConnectionFailed.Name(),
		Err:  err,
	}
}

// Classify maps a response status and decoded body to an error. It returns
// nil for statuses below 400.
//
//	401      AuthenticationError
//	403      AuthorizationError
//	404      ResourceNotFound
//	400-599  resolved from the body's name field, ServerError when unknown
func Classify(status int, body any) error {
	switch {
	case status == http.StatusUnauthorized:
		return fixedError(ErrAuthentication, status, body)
	case status == http.StatusForbidden:
		return fixedError(ErrAuthorization, status, body)
	case status == http.StatusNotFound:
		return fixedError(ErrResourceNotFound, status, body)
	case status >= http.StatusBadRequest && status < 600:
		return errorFromBody(errorBody(body), status)
	default:
		return nil
	}
}

func fixedError(kind *Kind, status int, body any) *Error {
	description, _ := errorBody(body)["description"].(string)

	return &Error{
		Kind:        kind,
		Name:        kind.Name(),
		Status:      status,
		Description: description,
	}
}

func errorFromBody(body map[string]any, status int) *Error {
	name, _ := body["name"].(string)
	if name == "" {
		return &Error{Status: status}
	}

	description, _ := body["description"].(string)

	kind, ok := LookupErrorKind(name)
	if !ok {
		return &Error{
			Kind:        ErrServerError,
			Name:        Camel(strings.ToLower(name)),
			Status:      status,
			Description: description,
		}
	}

	return &Error{
		Kind:        kind,
		Name:        kind.Name(),
		Status:      status,
		Description: description,
	}
}

// errorBody resolves the object describing an error: the first element when
// the body is a list, the body itself when it is an object.
func errorBody(body any) map[string]any {
	switch b := body.(type) {
	case map[string]any:
		return b
	case []any:
		if len(b) == 0 {
			return nil
		}

		first, _ := b[0].(map[string]any)

		return first
	case []map[string]any:
		if len(b) == 0 {
			return nil
		}

		return b[0]
	default:
		return nil
	}
}

// IsConnectionFailed reports whether err is a transport-level failure.
func IsConnectionFailed(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrAuthorization)
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsServerError reports whether err is a server error of an unknown kind.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerError)
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
	ErrOrgNotFound    = errors.New("org not found")
)
