package nso

import (
	"context"
	"net/http"
	"strings"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/tidwall/gjson"
)

const devicesPath = "/running/devices/device"

func devicePath(device string) string {
	return devicesPath + "/" + device
}

func operationPath(device, op string) string {
	return devicePath(device) + "/_operations/" + op
}

func (c *clientImpl) ListDevices(ctx context.Context) ([]string, error) {
	resp, err := c.expect(ctx, request{method: http.MethodGet, path: devicesPath, accept: MediaCollectionJSON},
		http.StatusOK, "failed to retrieve device list")
	if err != nil {
		return nil, err
	}
	return names(resp.Body(), "collection.tailf-ncs:device.#.name"), nil
}

func (c *clientImpl) CompareConfig(ctx context.Context, device string) (string, bool, error) {
	msg := "failed to compare config: " + device
	resp, err := c.do(ctx, request{method: http.MethodPost, path: operationPath(device, "compare-config"), accept: MediaDataJSON})
	if err != nil {
		return "", false, envelope.MaskError(envelope.RemoteAPIError, err, msg)
	}
	if resp.IsError() {
		return "", false, envelope.NewError(envelope.RemoteAPIError, msg)
	}

	body := resp.Body()
	if emptyDocument(body) {
		return "", false, nil
	}
	if !gjson.ValidBytes(body) {
		return "", false, envelope.NewError(envelope.RemoteAPIError, "failed to parse compare-config response: "+device)
	}
	return gjson.GetBytes(body, "tailf-ncs:output.diff").String(), true, nil
}

func (c *clientImpl) CheckSync(ctx context.Context, device string) (string, error) {
	msg := "failed to check sync: " + device
	resp, err := c.do(ctx, request{method: http.MethodPost, path: operationPath(device, "check-sync"), accept: MediaDataJSON})
	if err != nil {
		return "", envelope.MaskError(envelope.RemoteAPIError, err, msg)
	}
	result := gjson.GetBytes(resp.Body(), "tailf-ncs:output.result")
	if resp.IsError() || !result.Exists() {
		return "", envelope.NewError(envelope.RemoteAPIError, msg)
	}
	return result.String(), nil
}

func (c *clientImpl) SyncFromDevice(ctx context.Context, device string) error {
	msg := "failed to sync from device: " + device
	resp, err := c.expect(ctx, request{method: http.MethodPost, path: operationPath(device, "sync-from"), accept: MediaDataJSON},
		http.StatusOK, msg)
	if err != nil {
		return err
	}
	if !strings.EqualFold(gjson.GetBytes(resp.Body(), "tailf-ncs:output.result").String(), "true") {
		return envelope.NewError(envelope.RemoteAPIError, msg)
	}
	return nil
}

func (c *clientImpl) GetDevice(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.getObject(ctx, devicePath(name))
}

func (c *clientImpl) GetDeviceConfig(ctx context.Context, device, path string) (map[string]interface{}, error) {
	return c.getObject(ctx, devicePath(device)+path)
}

func (c *clientImpl) getObject(ctx context.Context, path string) (map[string]interface{}, error) {
	const msg = "failed to get device data"
	resp, err := c.expect(ctx, request{method: http.MethodGet, path: path, accept: MediaDataJSON}, http.StatusOK, msg)
	if err != nil {
		return nil, err
	}
	m, err := decodeObject(resp.Body())
	if err != nil {
		return nil, envelope.MaskError(envelope.RemoteAPIError, err, msg)
	}
	return m, nil
}
