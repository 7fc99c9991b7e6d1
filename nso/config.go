package nso

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultTemplateDir is the directory holding configuration and trace templates. Environment
// variables in the value are expanded when a template is loaded.
const DefaultTemplateDir = "$HOME/pytest-bdd/src/nso_bdd_test_pkg/xml"

// Config defines properties that configure the management API client.
type Config struct {
	// Host name or address of the management server.
	Host string `yaml:"host"`
	// Port of the management API, defaults to 8080.
	Port int `yaml:"port"`
	// Basic auth credentials.
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	// Directory holding templates.
	TemplateDir string `yaml:"template_dir"`
	// Timeout applied to every request.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig holds the values applied to unspecified client properties.
var DefaultConfig = Config{
	Port:        8080,
	TemplateDir: DefaultTemplateDir,
	Timeout:     time.Second * 30,
}

// BaseURL delivers the root of the management API.
func (c *Config) BaseURL() string {
	return "http://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) + "/api"
}

// TemplatePath delivers the location of the named template.
func (c *Config) TemplatePath(name string) string {
	return filepath.Join(os.ExpandEnv(c.TemplateDir), name)
}
