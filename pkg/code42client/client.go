package code42client

import (
	"fmt"

	"github.com/code42/code42-go/internal/client"
	"github.com/code42/code42-go/internal/connection"
	"github.com/code42/code42-go/internal/constants"
	internalhttp "github.com/code42/code42-go/internal/http"
	"github.com/code42/code42-go/internal/instrument"
	"github.com/code42/code42-go/pkg/code42"
)

// New creates a new Code42 API client.
func New(config *code42.Config) (code42.Client, error) {
	err := code42.ValidateConfig(config)
	if err != nil {
		return nil, err
	}

	instrumenter, err := createInstrumenter(config)
	if err != nil {
		return nil, err
	}

	pathPrefix := config.PathPrefix
	if pathPrefix == "" {
		pathPrefix = constants.DefaultPathPrefix
	}

	transport := internalhttp.NewClient("", createHTTPClientOptions(config)...)

	conn := connection.New(transport, connection.Options{
		Host:             config.Host,
		Port:             config.Port,
		Scheme:           config.Scheme,
		PathPrefix:       pathPrefix,
		Username:         config.Username,
		Password:         config.Password,
		Token:            config.Token,
		MasterLicenseKey: config.MasterLicenseKey,
		VerifyHTTPS:      config.VerifyHTTPS,
		Logger:           config.Logger,
		Instrumenter:     instrumenter,
	})

	c, err := client.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewWithToken creates a new client authenticating with a login token.
func NewWithToken(host, token string) (code42.Client, error) {
	return New(&code42.Config{
		Host:  host,
		Token: token,
	})
}

// NewWithPassword creates a new client using basic authentication.
func NewWithPassword(host, username, password string) (code42.Client, error) {
	return New(&code42.Config{
		Host:     host,
		Username: username,
		Password: password,
	})
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *code42.Config) []internalhttp.Option {
	var httpOpts []internalhttp.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, internalhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, internalhttp.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, internalhttp.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, internalhttp.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, internalhttp.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createInstrumenter combines the configured instrumenter with request
// metrics when a registerer is given.
func createInstrumenter(config *code42.Config) (code42.Instrumenter, error) {
	if config.MetricsRegisterer == nil {
		return config.Instrumenter, nil
	}

	metrics, err := instrument.NewMetricsInstrumenter(config.MetricsRegisterer)
	if err != nil {
		return nil, fmt.Errorf("creating metrics instrumenter: %w", err)
	}

	return instrument.Multi(config.Instrumenter, metrics), nil
}
