// Package config loads the settings used to construct the harness facades.
package config

import (
	"context"
	"os"

	"github.com/damianoneill/nsotest/envelope"
	"github.com/damianoneill/nsotest/harness"
	"github.com/damianoneill/nsotest/nso"
	"github.com/damianoneill/nsotest/remote"

	"github.com/imdario/mergo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config holds the settings for both facades.
type Config struct {
	SSH     remote.Credentials `yaml:"ssh"`
	API     nso.Config         `yaml:"api"`
	Results Results            `yaml:"results"`
}

// Results locates the local results directory.
type Results struct {
	// Parent of the timestamped directories created by SetupResultsPath.
	Parent string `yaml:"parent"`
	// Dir receives transfers until SetupResultsPath is called.
	Dir string `yaml:"dir"`
}

// DefaultConfig holds the values applied to unspecified settings.
var DefaultConfig = Config{
	SSH: remote.Credentials{Port: remote.DefaultPort},
	API: nso.DefaultConfig,
	Results: Results{
		Parent: remote.DefaultResultsParent,
		Dir:    remote.DefaultConfig.ResultsDir,
	},
}

// Load reads the YAML file at path and applies defaults to unspecified settings.
func Load(fs afero.Fs, path string) (*Config, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, envelope.WrapError(envelope.ConfigurationError, err, "failed to read config: "+path)
	}
	cfg := &Config{}
	if err = yaml.Unmarshal(b, cfg); err != nil {
		return nil, envelope.WrapError(envelope.ConfigurationError, err, "failed to parse config: "+path)
	}
	cfg.resolve()
	return cfg, nil
}

// Default delivers the default settings for the given server and login.
func Default(host, username, password string) *Config {
	cfg := &Config{SSH: remote.Credentials{Host: host, Username: username, Password: password}}
	cfg.resolve()
	return cfg
}

// resolve applies defaults. The management API inherits the ssh host and login when not set.
func (c *Config) resolve() {
	if c.API.Host == "" {
		c.API.Host = c.SSH.Host
	}
	if c.API.Username == "" && c.API.Password == "" {
		c.API.Username, c.API.Password = c.SSH.Username, c.SSH.Password
	}
	_ = mergo.Merge(c, DefaultConfig)
	c.API.TemplateDir = os.ExpandEnv(c.API.TemplateDir)
}

// ToCredentials delivers the ssh connection details.
func (c *Config) ToCredentials() remote.Credentials {
	return c.SSH
}

// ToNSO delivers the management API client settings.
func (c *Config) ToNSO() *nso.Config {
	api := c.API
	return &api
}

// NewRemoteFileSession delivers an unconnected RemoteFileSession using these settings.
func (c *Config) NewRemoteFileSession(ctx context.Context, opts ...harness.RemoteOption) *harness.RemoteFileSession {
	opts = append([]harness.RemoteOption{
		harness.WithCredentials(c.ToCredentials()),
		harness.WithResultsParent(c.Results.Parent),
		harness.WithResultsDir(c.Results.Dir),
	}, opts...)
	return harness.NewRemoteFileSession(ctx, opts...)
}

// NewConfigManagementClient delivers a ConfigManagementClient using these settings.
func (c *Config) NewConfigManagementClient(ctx context.Context, opts ...nso.ClientOption) (*harness.ConfigManagementClient, error) {
	return harness.NewConfigManagementClient(ctx, c.ToNSO(), opts...)
}
