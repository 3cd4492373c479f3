package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/code42/code42-go/internal/constants"
	"github.com/code42/code42-go/internal/instrument"
	"github.com/code42/code42-go/internal/logging"
	"github.com/code42/code42-go/pkg/code42"
	"github.com/code42/code42-go/pkg/code42client"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the persisted CLI configuration. Passwords are never written;
// supply them with CODE42_PASSWORD or the login prompt.
type Config struct {
	Host              string `mapstructure:"host"                yaml:"host,omitempty"`
	Port              int    `mapstructure:"port"                yaml:"port,omitempty"`
	Scheme            string `mapstructure:"scheme"              yaml:"scheme,omitempty"`
	PathPrefix        string `mapstructure:"path_prefix"         yaml:"path_prefix,omitempty"`
	Username          string `mapstructure:"username"            yaml:"username,omitempty"`
	Token             string `mapstructure:"token"               yaml:"token,omitempty"`
	MasterLicenseKey  string `mapstructure:"master_license_key"  yaml:"master_license_key,omitempty"`
	SkipSSLValidation bool   `mapstructure:"skip_ssl_validation" yaml:"skip_ssl_validation,omitempty"`
	NATSURL           string `mapstructure:"nats_url"            yaml:"nats_url,omitempty"`
	NATSSubject       string `mapstructure:"nats_subject"        yaml:"nats_subject,omitempty"`
}

// LoadConfig reads the CLI configuration from v, merging the config file,
// environment and bound flags.
func LoadConfig(v *viper.Viper) (*Config, error) {
	config := &Config{}

	err := v.Unmarshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return config, nil
}

// SaveConfig writes config to path, or to the file v was loaded from, or to
// $HOME/.code42/config.yml.
func SaveConfig(v *viper.Viper, path string, config *Config) error {
	configFile := path
	if configFile == "" {
		configFile = v.ConfigFileUsed()
	}

	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configFile = filepath.Join(home, constants.ConfigDirName, "config.yml")
	}

	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	return nil
}

// ConfigTokenPersister stores login tokens in the CLI configuration file.
type ConfigTokenPersister struct {
	v      *viper.Viper
	path   string
	config *Config
}

// NewConfigTokenPersister creates a persister writing config to path, see
// SaveConfig for how an empty path is resolved.
func NewConfigTokenPersister(v *viper.Viper, path string, config *Config) *ConfigTokenPersister {
	return &ConfigTokenPersister{v: v, path: path, config: config}
}

// SaveToken implements auth.TokenPersister.
func (p *ConfigTokenPersister) SaveToken(host, token string) error {
	p.config.Host = host
	p.config.Token = token

	return SaveConfig(p.v, p.path, p.config)
}

// ClientConfig builds a client configuration from the CLI configuration.
// The password comes from v ("password", i.e. CODE42_PASSWORD) only.
func ClientConfig(v *viper.Viper, config *Config, logger code42.Logger) (*code42.Config, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("%w, use --host or 'code42 login' first", ErrNoHostConfigured)
	}

	clientConfig := &code42.Config{
		Host:             config.Host,
		Port:             config.Port,
		Scheme:           config.Scheme,
		PathPrefix:       config.PathPrefix,
		Username:         config.Username,
		Password:         v.GetString("password"),
		Token:            config.Token,
		MasterLicenseKey: config.MasterLicenseKey,
		Logger:           logger,
		Debug:            v.GetBool("verbose"),
	}

	if config.SkipSSLValidation {
		verify := false
		clientConfig.VerifyHTTPS = &verify
	}

	return clientConfig, nil
}

// CreateClient creates a client from the global configuration. The returned
// function releases the logger and any event publisher.
func CreateClient() (code42.Client, func(), error) {
	v := viper.GetViper()

	config, err := LoadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	return createClient(v, config)
}

func createClient(v *viper.Viper, config *Config) (code42.Client, func(), error) {
	logger, err := logging.New(v.GetBool("verbose"))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() { _ = logger.Sync() }

	clientConfig, err := ClientConfig(v, config, logger)
	if err != nil {
		return nil, nil, err
	}

	instrumenters := []code42.Instrumenter{instrument.NewLogInstrumenter(logger)}

	if config.NATSURL != "" {
		opts := []instrument.NATSOption{instrument.WithNATSLogger(logger)}
		if config.NATSSubject != "" {
			opts = append(opts, instrument.WithSubject(config.NATSSubject))
		}

		publisher, err := instrument.ConnectNATS(config.NATSURL, opts...)
		if err != nil {
			return nil, nil, err
		}

		instrumenters = append(instrumenters, publisher)
		cleanup = func() {
			_ = publisher.Close()
			_ = logger.Sync()
		}
	}

	clientConfig.Instrumenter = instrument.Multi(instrumenters...)

	client, err := code42client.New(clientConfig)
	if err != nil {
		cleanup()

		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, cleanup, nil
}
