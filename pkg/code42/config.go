package code42

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a code42 client.
//
// # Authentication
//
// Token, Username/Password and MasterLicenseKey each set their own headers and
// none of them clears another. Token and basic auth both write the
// Authorization header; when both are configured the one applied last wins,
// which for a new client is the token. Configure one strategy at a time.
//
// # Timeouts, retries, and TLS
//
// Per-request deadlines should be set on the context passed to client
// methods. RetryMax defaults to 0: the client never retries on its own, and
// callers that want retries opt in through RetryMax/RetryWaitMin/RetryWaitMax,
// which are handled entirely by the HTTP transport.
type Config struct {
	// Required fields
	// Host: server host name or address, without scheme.
	Host string `validate:"required,hostname_rfc1123|ip"`

	// Optional target fields
	// Port: server port. Zero means the scheme's default port.
	Port int `validate:"omitempty,min=1,max=65535"`
	// Scheme: "https" (default) or "http".
	Scheme string `validate:"omitempty,oneof=http https"`
	// PathPrefix: path every request path is joined to, "/api" by default.
	PathPrefix string `validate:"omitempty,startswith=/"`

	// Authentication options
	Username string
	Password string
	// Token: value sent as "Authorization: TOKEN <token>".
	Token string
	// MasterLicenseKey: value sent in the master license key header.
	MasterLicenseKey string

	// VerifyHTTPS: nil or true verifies server certificates.
	VerifyHTTPS *bool

	// Optional configurations
	HTTPTimeout  time.Duration `validate:"gte=0"`
	RetryMax     int           `validate:"gte=0"`
	RetryWaitMin time.Duration `validate:"gte=0"`
	RetryWaitMax time.Duration `validate:"gte=0"`
	// Debug: enables request/response logging at debug level when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the transport and connection.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// Instrumenter: receives one event per request.
	Instrumenter Instrumenter
	// MetricsRegisterer: when set, request metrics are registered here.
	MetricsRegisterer prometheus.Registerer
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks a Config before a client is built from it.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrConfigRequired
	}

	err := configValidator.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fieldErr.Field(), fieldErr.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// ErrInvalidConfig is returned by ValidateConfig.
var ErrInvalidConfig = errors.New("invalid config")
