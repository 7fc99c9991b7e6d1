package harness

import (
	"context"
	"log"

	"github.com/damianoneill/nsotest/envelope"
	"github.com/damianoneill/nsotest/nso"
)

// ConfigDiffKey holds the difference reported by CompareConfig.
const ConfigDiffKey = "config-diff"

// ConfigManagementClient reports the outcome of management API operations as envelopes.
type ConfigManagementClient struct {
	ctx    context.Context
	client nso.Client
}

// NewConfigManagementClient delivers a client for the management API described by cfg. Trace hooks
// carried by ctx are applied to every request.
func NewConfigManagementClient(ctx context.Context, cfg *nso.Config, opts ...nso.ClientOption) (*ConfigManagementClient, error) {
	c, err := nso.NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &ConfigManagementClient{ctx: ctx, client: c}, nil
}

// ListDevices delivers the device names.
func (c *ConfigManagementClient) ListDevices() (envelope.Status, envelope.Payload) {
	devices, err := c.client.ListDevices(c.ctx)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(devices)
}

// CheckAPIRoot logs the response to a request for the API root.
func (c *ConfigManagementClient) CheckAPIRoot() {
	c.logDiagnostic("CheckAPIRoot", c.client.CheckAPI)
}

// CheckAPIReachable logs the response to a request for the running datastore.
func (c *ConfigManagementClient) CheckAPIReachable() {
	c.logDiagnostic("CheckAPIReachable", c.client.CheckAPIRunning)
}

// CheckAPIOperational logs the response to a request for the operational datastore.
func (c *ConfigManagementClient) CheckAPIOperational() {
	c.logDiagnostic("CheckAPIOperational", c.client.CheckAPIOperational)
}

func (c *ConfigManagementClient) logDiagnostic(name string, check func(context.Context) (*nso.APIStatus, error)) {
	status, err := check(c.ctx)
	if err != nil {
		log.Printf("NSO-%s err:%v\n", name, err)
		return
	}
	log.Printf("NSO-%s status:%d body:%s\n", name, status.StatusCode, status.Body)
}

// CompareConfig fails when the device configuration differs from the server, carrying the difference.
func (c *ConfigManagementClient) CompareConfig(device string) (envelope.Status, envelope.Payload) {
	diff, found, err := c.client.CompareConfig(c.ctx, device)
	if err != nil {
		return envelope.Fail(err)
	}
	if found {
		status, payload := envelope.FailMessage("config diff found")
		payload[ConfigDiffKey] = diff
		return status, payload
	}
	return envelope.SucceedEmpty()
}

// CheckSync fails when the device is out of sync.
func (c *ConfigManagementClient) CheckSync(device string) (envelope.Status, envelope.Payload) {
	result, err := c.client.CheckSync(c.ctx, device)
	if err != nil {
		return envelope.Fail(err)
	}
	if result == "out-of-sync" {
		return envelope.FailMessage(device + " is out of sync")
	}
	return envelope.SucceedMessage(device + " is in sync")
}

// GetDeviceState delivers the device subtree.
func (c *ConfigManagementClient) GetDeviceState(name string) (envelope.Status, envelope.Payload) {
	data, err := c.client.GetDevice(c.ctx, name)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(data)
}

// GetDeviceConfig delivers the device subtree at path.
func (c *ConfigManagementClient) GetDeviceConfig(device, path string) (envelope.Status, envelope.Payload) {
	data, err := c.client.GetDeviceConfig(c.ctx, device, path)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(data)
}

// ListPackages delivers the package names.
func (c *ConfigManagementClient) ListPackages() (envelope.Status, envelope.Payload) {
	packages, err := c.client.ListPackages(c.ctx)
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.Succeed(packages)
}

// ReloadPackages reports true only when every package reloaded. Otherwise the payload names the first
// package that failed.
func (c *ConfigManagementClient) ReloadPackages() (bool, envelope.Payload) {
	results, err := c.client.ReloadPackages(c.ctx)
	if err != nil {
		_, payload := envelope.Fail(err)
		return false, payload
	}
	for _, r := range results {
		if !r.Result {
			_, payload := envelope.FailMessage("failed to reload package: " + r.Package)
			return false, payload
		}
	}
	return true, envelope.Payload{}
}

// PushDeviceConfig renders the named template with values and applies it to the device.
func (c *ConfigManagementClient) PushDeviceConfig(device, template string, values map[string]interface{}) (envelope.Status, envelope.Payload) {
	return result(c.client.PushDeviceConfig(c.ctx, device, template, values))
}

// InstallDeviceTrace installs the trace described by the named template on the device.
func (c *ConfigManagementClient) InstallDeviceTrace(device, file string) (envelope.Status, envelope.Payload) {
	return result(c.client.InstallDeviceTrace(c.ctx, device, file))
}

// RemoveDeviceTrace removes the trace described by the named template from the device.
func (c *ConfigManagementClient) RemoveDeviceTrace(device, file string) (envelope.Status, envelope.Payload) {
	return result(c.client.RemoveDeviceTrace(c.ctx, device, file))
}

// SyncFromDevice pulls the device configuration into the server.
func (c *ConfigManagementClient) SyncFromDevice(device string) (envelope.Status, envelope.Payload) {
	return result(c.client.SyncFromDevice(c.ctx, device))
}

func result(err error) (envelope.Status, envelope.Payload) {
	if err != nil {
		return envelope.Fail(err)
	}
	return envelope.SucceedEmpty()
}
