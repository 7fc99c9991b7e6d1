package remote

import (
	"net"
	"strconv"
	"time"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/spf13/afero"
	"golang.org/x/crypto/ssh"
)

// DefaultPort is used when Credentials.Port is not set.
const DefaultPort = 22

// Credentials defines the host and login used to establish a session.
type Credentials struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Validate reports a ConfigurationError if any required field is unset.
func (c *Credentials) Validate() error {
	if c == nil || c.Host == "" || c.Username == "" || c.Password == "" {
		return envelope.NewError(envelope.ConfigurationError, "connection and credentials not yet configured!")
	}
	return nil
}

// Target delivers the host:port address of the remote server.
func (c *Credentials) Target() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// ClientConfig delivers an ssh client configuration for the credentials.
// Unknown host keys are trusted without verification; this is only acceptable on a trusted lab network.
func (c *Credentials) ClientConfig(timeout time.Duration) *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            c.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(c.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint: gosec
		Timeout:         timeout,
	}
}

// SessionOption implements options for configuring session behaviour.
type SessionOption func(*SessionConfig)

// WithResultsDir defines the local directory that transferred files are written to.
func WithResultsDir(dir string) SessionOption {
	return func(c *SessionConfig) {
		c.ResultsDir = dir
	}
}

// WithFs defines the local filesystem that transferred files are written to.
func WithFs(fs afero.Fs) SessionOption {
	return func(c *SessionConfig) {
		c.Fs = fs
	}
}

// WithDialer overrides the function used to establish the transport.
func WithDialer(dialer DialFunc) SessionOption {
	return func(c *SessionConfig) {
		c.Dialer = dialer
	}
}

// WithTimeout defines the timeout for establishing the ssh connection.
func WithTimeout(timeout time.Duration) SessionOption {
	return func(c *SessionConfig) {
		c.Timeout = timeout
	}
}

// SessionConfig defines properties controlling session behaviour.
type SessionConfig struct {
	// Local directory that transferred files are written to.
	ResultsDir string
	// Local filesystem holding the results directory.
	Fs afero.Fs
	// Establishes the transport to the remote server.
	Dialer DialFunc
	// Connection timeout.
	Timeout time.Duration
}

// DefaultConfig holds the values applied to unspecified session properties.
var DefaultConfig = SessionConfig{
	ResultsDir: "src/results",
	Fs:         afero.NewOsFs(),
	Dialer:     NewSSHTransport,
	Timeout:    time.Second * 30,
}

// applyDefaults sets unspecified properties of c from DefaultConfig.
// Fs holds an interface value, so the defaults are applied field by field rather than by a deep merge.
func applyDefaults(c *SessionConfig) {
	if c.ResultsDir == "" {
		c.ResultsDir = DefaultConfig.ResultsDir
	}
	if c.Fs == nil {
		c.Fs = DefaultConfig.Fs
	}
	if c.Dialer == nil {
		c.Dialer = DefaultConfig.Dialer
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultConfig.Timeout
	}
}
