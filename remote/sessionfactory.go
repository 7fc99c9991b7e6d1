package remote

import (
	"context"
	"time"

	"github.com/damianoneill/nsotest/envelope"
)

// SessionFactory defines a factory method for establishing file sessions to a remote server.
type SessionFactory interface {
	// NewSession validates creds, then connects to the server they describe.
	NewSession(ctx context.Context, creds *Credentials, opts ...SessionOption) (Session, error)
}

// NewSessionFactory delivers a factory that applies cfg to every new session.
// A nil cfg means DefaultConfig.
func NewSessionFactory(cfg *SessionConfig) SessionFactory {
	if cfg == nil {
		cfg = &DefaultConfig
	}
	return &factoryImpl{cfg: cfg}
}

type factoryImpl struct {
	cfg *SessionConfig
}

func (f *factoryImpl) NewSession(ctx context.Context, creds *Credentials, opts ...SessionOption) (s Session, err error) {
	if err = creds.Validate(); err != nil {
		return nil, err
	}

	config := *f.cfg
	for _, opt := range opts {
		opt(&config)
	}
	// Use supplied config, but apply any defaults to unspecified values.
	applyDefaults(&config)

	target := creds.Target()
	trace := ContextSessionTrace(ctx)

	trace.ConnectStart(target)
	defer func(begin time.Time) {
		trace.ConnectDone(target, err, time.Since(begin))
	}(time.Now())

	t, err := config.Dialer(ctx, creds.ClientConfig(config.Timeout), target)
	if err != nil {
		trace.Error("NewSession", target, err)
		return nil, envelope.WrapError(envelope.ConnectionError, err, "")
	}

	return &sessionImpl{cfg: &config, t: t, trace: trace, target: target}, nil
}
