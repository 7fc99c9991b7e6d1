package nso

import (
	"context"
	"log"
	"time"

	"github.com/imdario/mergo"
)

// unique type to prevent assignment.
type clientEventContextKey struct{}

// ContextClientTrace returns the ClientTrace associated with the
// provided context. If none, it returns NoOpLoggingHooks.
func ContextClientTrace(ctx context.Context) *ClientTrace {
	trace, _ := ctx.Value(clientEventContextKey{}).(*ClientTrace)
	if trace == nil {
		trace = NoOpLoggingHooks
	} else {
		_ = mergo.Merge(trace, NoOpLoggingHooks)
	}
	return trace
}

// WithClientTrace returns a new context based on the provided parent
// ctx. Requests made with the returned context will use
// the provided trace hooks
func WithClientTrace(ctx context.Context, trace *ClientTrace) context.Context {
	return context.WithValue(ctx, clientEventContextKey{}, trace)
}

// ClientTrace defines a structure for handling trace events
type ClientTrace struct {
	// RequestStart is called before a request is sent, id is the value of the request id header.
	RequestStart func(id, method, url string)

	// RequestDone is called when the response has been read or the request has failed.
	RequestDone func(id, method, url string, status int, body []byte, err error, d time.Duration)

	// Error is called after an error condition has been detected.
	Error func(context, target string, err error)
}

// DefaultLoggingHooks provides a default logging hook to report errors.
var DefaultLoggingHooks = &ClientTrace{
	Error: func(context, target string, err error) {
		log.Printf("NSO-Error context:%s target:%s err:%v\n", context, target, err)
	},
}

// DiagnosticLoggingHooks provides a set of default diagnostic hooks
var DiagnosticLoggingHooks = &ClientTrace{
	RequestStart: func(id, method, url string) {
		log.Printf("NSO-RequestStart id:%s method:%s url:%s\n", id, method, url)
	},
	RequestDone: func(id, method, url string, status int, body []byte, err error, d time.Duration) {
		log.Printf("NSO-RequestDone id:%s method:%s url:%s status:%d err:%v took:%dms\n", id, method, url, status, err, d.Milliseconds())
		log.Printf("NSO-ResponseBody id:%s body:%s\n", id, body)
	},
	Error: DefaultLoggingHooks.Error,
}

// NoOpLoggingHooks provides set of hooks that do nothing.
var NoOpLoggingHooks = &ClientTrace{
	RequestStart: func(id, method, url string) {},
	RequestDone:  func(id, method, url string, status int, body []byte, err error, d time.Duration) {},
	Error:        func(context, target string, err error) {},
}
