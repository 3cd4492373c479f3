package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Request target defaults.
const (
	// DefaultScheme is used when a connection has no scheme.
	DefaultScheme = "https"

	// DefaultPathPrefix is the path the server API is mounted under.
	DefaultPathPrefix = "/api"

	// DefaultUserAgent is sent when none is configured.
	DefaultUserAgent = "code42-go"

	// DefaultOrgID selects the caller's own org.
	DefaultOrgID = "my"
)

// Header names and prefixes.
const (
	HeaderAuthorization          = "Authorization"
	HeaderAuthorizationChallenge = "Authorization-Challenge"
	HeaderMasterLicenseKey       = "C42-MasterLicenseKey"
	HeaderContentType            = "Content-Type"
	HeaderAccept                 = "Accept"
	HeaderUserAgent              = "User-Agent"

	TokenAuthPrefix     = "TOKEN "
	BasicAuthPrefix     = "Basic "
	MasterLicensePrefix = "BASIC "
	ContentTypeJSON     = "application/json"
)

// Response envelope.
const (
	// DataEnvelopeKey holds the payload of every response.
	DataEnvelopeKey = "data"

	// CollectionKeyParam names the collection field the server should fill.
	CollectionKeyParam = "key"
)

// Instrumentation.
const (
	// DefaultEventSubject is the NATS subject request events are published on.
	DefaultEventSubject = "code42.request"

	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace = "code42"
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".code42"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "CODE42"
)
