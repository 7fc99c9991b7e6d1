package remote

import (
	"testing"
	"time"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/spf13/afero"
	assert "github.com/stretchr/testify/require"
)

func TestCredentialsValidate(t *testing.T) {
	valid := Credentials{Host: "nso", Username: "admin", Password: "admin"}
	assert.NoError(t, valid.Validate())

	for name, creds := range map[string]*Credentials{
		"nil":      nil,
		"host":     {Username: "admin", Password: "admin"},
		"username": {Host: "nso", Password: "admin"},
		"password": {Host: "nso", Username: "admin"},
	} {
		err := creds.Validate()
		assert.Error(t, err, name)
		assert.True(t, envelope.IsKind(err, envelope.ConfigurationError), name)
		assert.Equal(t, "connection and credentials not yet configured!", err.Error())
	}
}

func TestCredentialsTarget(t *testing.T) {
	assert.Equal(t, "nso:22", (&Credentials{Host: "nso"}).Target())
	assert.Equal(t, "nso:2022", (&Credentials{Host: "nso", Port: 2022}).Target())
	assert.Equal(t, "[::1]:22", (&Credentials{Host: "::1"}).Target())
}

func TestCredentialsClientConfig(t *testing.T) {
	cfg := (&Credentials{Host: "nso", Username: "admin", Password: "secret"}).ClientConfig(time.Second)
	assert.Equal(t, "admin", cfg.User)
	assert.Len(t, cfg.Auth, 1)
	assert.NotNil(t, cfg.HostKeyCallback)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestApplyDefaults(t *testing.T) {
	cfg := SessionConfig{}
	applyDefaults(&cfg)
	assert.Equal(t, "src/results", cfg.ResultsDir)
	assert.Equal(t, time.Second*30, cfg.Timeout)
	assert.NotNil(t, cfg.Fs)
	assert.NotNil(t, cfg.Dialer)

	fs := afero.NewMemMapFs()
	cfg = SessionConfig{}
	for _, opt := range []SessionOption{WithResultsDir("out"), WithFs(fs), WithTimeout(time.Second)} {
		opt(&cfg)
	}
	applyDefaults(&cfg)
	assert.Equal(t, "out", cfg.ResultsDir)
	assert.Equal(t, fs, cfg.Fs)
	assert.Equal(t, time.Second, cfg.Timeout)
}
