package remote

import (
	"context"
	"log"
	"time"

	"github.com/imdario/mergo"
)

// unique type to prevent assignment.
type sessionEventContextKey struct{}

// ContextSessionTrace returns the SessionTrace associated with the
// provided context. If none, it returns NoOpLoggingHooks.
func ContextSessionTrace(ctx context.Context) *SessionTrace {
	trace, _ := ctx.Value(sessionEventContextKey{}).(*SessionTrace)
	if trace == nil {
		trace = NoOpLoggingHooks
	} else {
		_ = mergo.Merge(trace, NoOpLoggingHooks)
	}
	return trace
}

// WithSessionTrace returns a new context based on the provided parent
// ctx. Sessions created with the returned context will use
// the provided trace hooks
func WithSessionTrace(ctx context.Context, trace *SessionTrace) context.Context {
	return context.WithValue(ctx, sessionEventContextKey{}, trace)
}

// SessionTrace defines a structure for handling trace events
type SessionTrace struct {
	// ConnectStart is called when starting to connect to a remote server.
	ConnectStart func(target string)

	// ConnectDone is called when the connection attempt completes, with err indicating
	// whether it was successful.
	ConnectDone func(target string, err error, d time.Duration)

	// ConnectionClosed is called after the connection has been closed.
	ConnectionClosed func(target string, err error)

	// CommandStart is called before a shell command is executed.
	CommandStart func(target, cmd string)

	// CommandDone is called after a shell command completes.
	CommandDone func(target, cmd string, output string, err error, d time.Duration)

	// TransferStart is called before a file is downloaded.
	TransferStart func(src, dst string)

	// TransferDone is called after a file download completes, with c the number of bytes written.
	TransferDone func(src, dst string, c int64, err error, d time.Duration)

	// ResultsDirCreated is called after the results directory has been set up.
	ResultsDirCreated func(path string, err error)

	// Error is called after an error condition has been detected.
	Error func(context, target string, err error)
}

// DefaultLoggingHooks provides a default logging hook to report errors.
var DefaultLoggingHooks = &SessionTrace{
	Error: func(context, target string, err error) {
		log.Printf("SSH-Error context:%s target:%s err:%v\n", context, target, err)
	},
}

// DiagnosticLoggingHooks provides a set of default diagnostic hooks
var DiagnosticLoggingHooks = &SessionTrace{
	ConnectStart: func(target string) {
		log.Printf("SSH-ConnectStart target:%s\n", target)
	},
	ConnectDone: func(target string, err error, d time.Duration) {
		log.Printf("SSH-ConnectDone target:%s err:%v took:%dms\n", target, err, d.Milliseconds())
	},
	ConnectionClosed: func(target string, err error) {
		log.Printf("SSH-ConnectionClosed target:%s err:%v\n", target, err)
	},
	CommandStart: func(target, cmd string) {
		log.Printf("SSH-CommandStart target:%s cmd:%s\n", target, cmd)
	},
	CommandDone: func(target, cmd, output string, err error, d time.Duration) {
		log.Printf("SSH-CommandDone target:%s cmd:%s len:%d err:%v took:%dms\n", target, cmd, len(output), err, d.Milliseconds())
	},
	TransferStart: func(src, dst string) {
		log.Printf("SSH-TransferStart src:%s dst:%s\n", src, dst)
	},
	TransferDone: func(src, dst string, c int64, err error, d time.Duration) {
		log.Printf("SSH-TransferDone src:%s dst:%s len:%d err:%v took:%dms\n", src, dst, c, err, d.Milliseconds())
	},
	ResultsDirCreated: func(path string, err error) {
		log.Printf("SSH-ResultsDirCreated path:%s err:%v\n", path, err)
	},
	Error: DefaultLoggingHooks.Error,
}

// NoOpLoggingHooks provides set of hooks that do nothing.
var NoOpLoggingHooks = &SessionTrace{
	ConnectStart:      func(target string) {},
	ConnectDone:       func(target string, err error, d time.Duration) {},
	ConnectionClosed:  func(target string, err error) {},
	CommandStart:      func(target, cmd string) {},
	CommandDone:       func(target, cmd, output string, err error, d time.Duration) {},
	TransferStart:     func(src, dst string) {},
	TransferDone:      func(src, dst string, c int64, err error, d time.Duration) {},
	ResultsDirCreated: func(path string, err error) {},
	Error:             func(context, target string, err error) {},
}
