// Package harness provides the facades invoked by the test harness. Every operation reports its
// outcome as an envelope rather than an error, so callers must check the returned status.
package harness

import (
	"context"
	"time"

	"github.com/damianoneill/nsotest/envelope"
	"github.com/damianoneill/nsotest/remote"

	"github.com/spf13/afero"
)

const success = "success"

// RemoteFileSession holds the connection details and, once connected, the session used to
// list, delete and collect files on a remote server.
// It is not safe for concurrent use.
type RemoteFileSession struct {
	ctx           context.Context
	factory       remote.SessionFactory
	sessionOpts   []remote.SessionOption
	fs            afero.Fs
	now           func() time.Time
	creds         remote.Credentials
	resultsParent string
	resultsDir    string
	session       remote.Session
}

// RemoteOption implements options for configuring the RemoteFileSession.
type RemoteOption func(*RemoteFileSession)

// WithCredentials defines the initial connection details.
func WithCredentials(creds remote.Credentials) RemoteOption {
	return func(r *RemoteFileSession) {
		r.creds = creds
	}
}

// WithSessionFactory defines the factory used to connect.
func WithSessionFactory(f remote.SessionFactory) RemoteOption {
	return func(r *RemoteFileSession) {
		r.factory = f
	}
}

// WithSessionOptions defines options applied to every session.
func WithSessionOptions(opts ...remote.SessionOption) RemoteOption {
	return func(r *RemoteFileSession) {
		r.sessionOpts = append(r.sessionOpts, opts...)
	}
}

// WithResultsFs defines the local filesystem holding results.
func WithResultsFs(fs afero.Fs) RemoteOption {
	return func(r *RemoteFileSession) {
		r.fs = fs
	}
}

// WithResultsParent defines the directory under which SetupResultsPath creates the results directory.
func WithResultsParent(dir string) RemoteOption {
	return func(r *RemoteFileSession) {
		r.resultsParent = dir
	}
}

// WithResultsDir defines the results directory used when SetupResultsPath is not called.
func WithResultsDir(dir string) RemoteOption {
	return func(r *RemoteFileSession) {
		r.resultsDir = dir
	}
}

// WithClock defines the source of the time used to name the results directory.
func WithClock(now func() time.Time) RemoteOption {
	return func(r *RemoteFileSession) {
		r.now = now
	}
}

// NewRemoteFileSession delivers an unconnected RemoteFileSession. Trace hooks carried by ctx
// are applied to every operation.
func NewRemoteFileSession(ctx context.Context, opts ...RemoteOption) *RemoteFileSession {
	r := &RemoteFileSession{
		ctx:           ctx,
		factory:       remote.NewSessionFactory(nil),
		fs:            remote.DefaultConfig.Fs,
		now:           time.Now,
		resultsParent: remote.DefaultResultsParent,
		resultsDir:    remote.DefaultConfig.ResultsDir,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetupCredentials defines the login used by Connect.
func (r *RemoteFileSession) SetupCredentials(username, password string) {
	r.creds.Username = username
	r.creds.Password = password
}

// SetupConnection defines the server address used by Connect. A zero port means the default ssh port.
func (r *RemoteFileSession) SetupConnection(host string, port int) {
	r.creds.Host = host
	r.creds.Port = port
}

// SetupResultsPath creates a results directory named for the current time, which receives all subsequent transfers.
func (r *RemoteFileSession) SetupResultsPath() (envelope.Status, envelope.Payload) {
	dir, err := remote.SetupResultsDir(r.ctx, r.fs, r.resultsParent, r.now())
	if err != nil {
		return envelope.Fail(err)
	}
	r.resultsDir = dir
	if r.session != nil {
		r.session.SetResultsDir(dir)
	}
	return envelope.Succeed(dir)
}

// ResultsDir delivers the directory that transfers are written to.
func (r *RemoteFileSession) ResultsDir() string {
	return r.resultsDir
}

// SetupAll defines the credentials and server address, then connects.
func (r *RemoteFileSession) SetupAll(username, password, host string, port int) (envelope.Status, envelope.Payload) {
	r.SetupCredentials(username, password)
	r.SetupConnection(host, port)
	return r.Connect()
}

// Connect establishes the session. An existing session is closed first.
func (r *RemoteFileSession) Connect() (envelope.Status, envelope.Payload) {
	if r.session != nil {
		_ = r.session.Close()
		r.session = nil
	}

	creds := r.creds
	opts := append([]remote.SessionOption{remote.WithFs(r.fs), remote.WithResultsDir(r.resultsDir)}, r.sessionOpts...)
	s, err := r.factory.NewSession(r.ctx, &creds, opts...)
	if err != nil {
		return envelope.Fail(err)
	}
	r.session = s
	return envelope.Succeed(success)
}

func (r *RemoteFileSession) connected() error {
	if r.session == nil {
		return envelope.NewError(envelope.NotConnectedError, "not connected")
	}
	return nil
}

// ListFiles lists the remote directory.
func (r *RemoteFileSession) ListFiles(path string) (envelope.Status, envelope.Payload) {
	if err := r.connected(); err != nil {
		return envelope.Fail(err)
	}
	names, err := r.session.ListFiles(path)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(names)
}

// DeleteFile removes path/name from the remote server and confirms it is gone.
func (r *RemoteFileSession) DeleteFile(path, name string) (envelope.Status, envelope.Payload) {
	if err := r.connected(); err != nil {
		return envelope.Fail(err)
	}
	if err := r.session.DeleteFile(path, name); err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(success)
}

// TransferFile downloads remotePath/name into the results directory, prefixed by label when given.
// The result is the local path written.
func (r *RemoteFileSession) TransferFile(remotePath, name, label string) (envelope.Status, envelope.Payload) {
	if err := r.connected(); err != nil {
		return envelope.Fail(err)
	}
	local, err := r.session.TransferFile(remotePath, name, label)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(local)
}

// FetchNamedFiles transfers every one of names present in path. Absent names are skipped.
// The result is the list of local paths written.
func (r *RemoteFileSession) FetchNamedFiles(names []string, path, label string) (envelope.Status, envelope.Payload) {
	if err := r.connected(); err != nil {
		return envelope.Fail(err)
	}
	locals, err := r.session.FetchNamedFiles(names, path, label)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(locals)
}

// Disconnect closes the session. Disconnecting when not connected does nothing.
func (r *RemoteFileSession) Disconnect() (envelope.Status, envelope.Payload) {
	if r.session == nil {
		return envelope.SucceedEmpty()
	}
	err := r.session.Close()
	r.session = nil
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.SucceedEmpty()
}
