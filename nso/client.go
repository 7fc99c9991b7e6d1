// Package nso provides a client for the fixed set of management API endpoints used by the
// test harness. Every method is a single request and response; nothing is retried or paginated.
package nso

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Media types selected by the Accept header of each request.
const (
	MediaCollectionJSON = "application/vnd.yang.collection+json"
	MediaAPIJSON        = "application/vnd.yang.api+json"
	MediaDatastoreJSON  = "application/vnd.yang.datastore+json"
	MediaDatastoreXML   = "application/vnd.yang.datastore+xml"
	MediaDataJSON       = "application/vnd.yang.data+json"
	MediaDataXML        = "application/vnd.yang.data+xml"
)

// RequestIDHeader carries a unique id for every request.
const RequestIDHeader = "X-Request-Id"

// APIStatus reports the outcome of a diagnostic request.
type APIStatus struct {
	StatusCode int
	Body       string
}

// ReloadResult is the outcome of reloading a single package.
type ReloadResult struct {
	Package string
	Result  bool
}

// Client defines the operations available on the management API.
// Implementations are safe for concurrent use.
type Client interface {
	// ListDevices delivers the names of the devices held in the running datastore.
	ListDevices(ctx context.Context) ([]string, error)
	// CheckAPI requests the API root.
	CheckAPI(ctx context.Context) (*APIStatus, error)
	// CheckAPIRunning requests the running datastore.
	CheckAPIRunning(ctx context.Context) (*APIStatus, error)
	// CheckAPIOperational requests the operational datastore.
	CheckAPIOperational(ctx context.Context) (*APIStatus, error)

	// CompareConfig delivers the configuration difference between the server and the device,
	// found is false when there is no difference.
	CompareConfig(ctx context.Context, device string) (diff string, found bool, err error)
	// CheckSync delivers the sync state reported for the device, for example "in-sync" or "out-of-sync".
	CheckSync(ctx context.Context, device string) (string, error)
	// SyncFromDevice pulls the configuration of the device into the server.
	SyncFromDevice(ctx context.Context, device string) error
	// GetDevice delivers the device subtree.
	GetDevice(ctx context.Context, name string) (map[string]interface{}, error)
	// GetDeviceConfig delivers the device subtree found at path, which is appended to the device resource.
	GetDeviceConfig(ctx context.Context, device, path string) (map[string]interface{}, error)

	// ListPackages delivers the names of the loaded packages.
	ListPackages(ctx context.Context) ([]string, error)
	// ReloadPackages reloads every package and delivers the per-package results.
	ReloadPackages(ctx context.Context) ([]ReloadResult, error)

	// PushDeviceConfig renders the named template with values and patches the result into the device configuration.
	PushDeviceConfig(ctx context.Context, device, template string, values map[string]interface{}) error
	// InstallDeviceTrace puts the named trace template onto the device.
	InstallDeviceTrace(ctx context.Context, device, file string) error
	// RemoveDeviceTrace patches the named trace template onto the device. A trace that does not exist is not an error.
	RemoveDeviceTrace(ctx context.Context, device, file string) error
}

// ClientOption implements options for configuring client behaviour.
type ClientOption func(*clientImpl)

// WithTemplateFs defines the filesystem that templates are read from.
func WithTemplateFs(fs afero.Fs) ClientOption {
	return func(c *clientImpl) {
		c.fs = fs
	}
}

type clientImpl struct {
	cfg *Config
	rc  *resty.Client
	fs  afero.Fs
}

// NewClient delivers a client for the management API described by cfg.
func NewClient(cfg *Config, opts ...ClientOption) (Client, error) {
	resolvedConfig := Config{}
	if cfg != nil {
		resolvedConfig = *cfg
	}
	// Use supplied config, but apply any defaults to unspecified values.
	_ = mergo.Merge(&resolvedConfig, DefaultConfig)

	if resolvedConfig.Host == "" {
		return nil, envelope.NewError(envelope.ConfigurationError, "management api host not configured")
	}

	c := &clientImpl{
		cfg: &resolvedConfig,
		rc: resty.New().
			SetBaseURL(resolvedConfig.BaseURL()).
			SetBasicAuth(resolvedConfig.Username, resolvedConfig.Password).
			SetTimeout(resolvedConfig.Timeout).
			// The API is only served over http.
			SetDisableWarn(true),
		fs: afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes a single call to the management API.
type request struct {
	method string
	path   string
	accept string
	body   string
}

func (c *clientImpl) do(ctx context.Context, r request) (resp *resty.Response, err error) {
	trace := ContextClientTrace(ctx)
	id := uuid.New().String()
	url := c.rc.BaseURL + r.path

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("Accept", r.accept).
		SetHeader(RequestIDHeader, id)
	if r.body != "" {
		req.SetHeader("Content-Type", MediaDataXML).SetBody(r.body)
	}

	trace.RequestStart(id, r.method, url)
	defer func(begin time.Time) {
		var status int
		var body []byte
		if resp != nil {
			status, body = resp.StatusCode(), resp.Body()
		}
		trace.RequestDone(id, r.method, url, status, body, err, time.Since(begin))
	}(time.Now())

	resp, err = req.Execute(r.method, r.path)
	if err != nil {
		trace.Error(r.method, url, err)
		return nil, envelope.WrapError(envelope.RemoteAPIError, errors.Wrapf(err, "%s %s failed", r.method, url), "")
	}
	return resp, nil
}

// expect issues the request and fails with msg unless the response status is status.
func (c *clientImpl) expect(ctx context.Context, r request, status int, msg string) (*resty.Response, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, envelope.MaskError(envelope.RemoteAPIError, err, msg)
	}
	if resp.StatusCode() != status {
		return nil, envelope.NewError(envelope.RemoteAPIError, msg)
	}
	return resp, nil
}

func (c *clientImpl) diagnostic(ctx context.Context, path, accept string) (*APIStatus, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: path, accept: accept})
	if err != nil {
		return nil, err
	}
	return &APIStatus{StatusCode: resp.StatusCode(), Body: resp.String()}, nil
}

func (c *clientImpl) CheckAPI(ctx context.Context) (*APIStatus, error) {
	return c.diagnostic(ctx, "", MediaAPIJSON)
}

func (c *clientImpl) CheckAPIRunning(ctx context.Context) (*APIStatus, error) {
	return c.diagnostic(ctx, "/running/", MediaDatastoreJSON)
}

func (c *clientImpl) CheckAPIOperational(ctx context.Context) (*APIStatus, error) {
	return c.diagnostic(ctx, "/operational", MediaDatastoreJSON)
}

// names delivers the string values found at path in a JSON document.
func names(body []byte, path string) []string {
	result := []string{}
	for _, v := range gjson.GetBytes(body, path).Array() {
		result = append(result, v.String())
	}
	return result
}

// decodeObject delivers body as a generic JSON object.
func decodeObject(body []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid json response")
	}
	m, ok := gjson.ParseBytes(body).Value().(map[string]interface{})
	if !ok {
		return nil, errors.New("json response is not an object")
	}
	return m, nil
}

// emptyDocument reports whether body holds no content, treating an empty object or null as empty.
func emptyDocument(body []byte) bool {
	s := strings.TrimSpace(string(body))
	return s == "" || s == "{}" || s == "null"
}
