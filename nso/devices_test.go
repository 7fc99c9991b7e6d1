package nso_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/damianoneill/nsotest/envelope"
	"github.com/damianoneill/nsotest/testserver"

	assert "github.com/stretchr/testify/require"
)

const (
	device     = "csr1000v"
	devicePath = "/running/devices/device/" + device
)

func TestCompareConfig(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	c := newClient(t, ts)
	path := devicePath + "/_operations/compare-config"

	for _, body := range []string{"", "{}", " \n"} {
		ts.Respond(http.MethodPost, path, http.StatusOK, body)
		diff, found, err := c.CompareConfig(context.Background(), device)
		assert.NoError(t, err)
		assert.False(t, found, "Expecting no diff for body %q", body)
		assert.Empty(t, diff)
	}

	ts.Respond(http.MethodPost, path, http.StatusOK, `{"tailf-ncs:output":{"diff":"\n interface GigabitEthernet2\n-  mtu 1500\n+  mtu 9000\n"}}`)
	diff, found, err := c.CompareConfig(context.Background(), device)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "\n interface GigabitEthernet2\n-  mtu 1500\n+  mtu 9000\n", diff)

	req := ts.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, path, req.Path)
	assert.Equal(t, "application/vnd.yang.data+json", req.Accept)
}

func TestCompareConfigFailure(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	c := newClient(t, ts)
	path := devicePath + "/_operations/compare-config"

	ts.Respond(http.MethodPost, path, http.StatusOK, "diff found")
	_, found, err := c.CompareConfig(context.Background(), device)
	assert.False(t, found)
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))

	_, _, err = c.CompareConfig(context.Background(), "unknown")
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Equal(t, "failed to compare config: unknown", err.Error())
}

func TestCheckSync(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	c := newClient(t, ts)
	path := devicePath + "/_operations/check-sync"

	ts.Respond(http.MethodPost, path, http.StatusOK, `{"tailf-ncs:output":{"result":"in-sync"}}`)
	result, err := c.CheckSync(context.Background(), device)
	assert.NoError(t, err)
	assert.Equal(t, "in-sync", result)

	ts.Respond(http.MethodPost, path, http.StatusOK, `{"tailf-ncs:output":{"result":"out-of-sync","info":"got: 1 expected: 2"}}`)
	result, err = c.CheckSync(context.Background(), device)
	assert.NoError(t, err)
	assert.Equal(t, "out-of-sync", result)

	ts.Respond(http.MethodPost, path, http.StatusOK, `{}`)
	_, err = c.CheckSync(context.Background(), device)
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Equal(t, "failed to check sync: csr1000v", err.Error())
}

func TestSyncFromDevice(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	c := newClient(t, ts)
	path := devicePath + "/_operations/sync-from"

	for _, body := range []string{`{"tailf-ncs:output":{"result":true}}`, `{"tailf-ncs:output":{"result":"True"}}`} {
		ts.Respond(http.MethodPost, path, http.StatusOK, body)
		assert.NoError(t, c.SyncFromDevice(context.Background(), device))
	}

	for status, body := range map[int]string{
		http.StatusOK:                  `{"tailf-ncs:output":{"result":false,"info":"Device not connected"}}`,
		http.StatusInternalServerError: `{}`,
	} {
		ts.Respond(http.MethodPost, path, status, body)
		err := c.SyncFromDevice(context.Background(), device)
		assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
		assert.Equal(t, "failed to sync from device: csr1000v", err.Error())
	}
}

func TestGetDevice(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodGet, devicePath, http.StatusOK,
		`{"tailf-ncs:device":{"name":"csr1000v","address":"192.168.20.61","port":22}}`)

	data, err := newClient(t, ts).GetDevice(context.Background(), device)
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"tailf-ncs:device": map[string]interface{}{"name": "csr1000v", "address": "192.168.20.61", "port": float64(22)},
	}, data)
	assert.Equal(t, "application/vnd.yang.data+json", ts.LastRequest().Accept)
}

func TestGetDeviceFailure(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodGet, devicePath, http.StatusOK, `not json`)
	c := newClient(t, ts)

	data, err := c.GetDevice(context.Background(), "unknown")
	assert.Nil(t, data)
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Equal(t, "failed to get device data", err.Error())

	_, err = c.GetDevice(context.Background(), device)
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Contains(t, err.Error(), "failed to get device data")
}

func TestGetDeviceConfig(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodGet, devicePath+"/config/ios:interface/GigabitEthernet/2", http.StatusOK,
		`{"tailf-ned-cisco-ios:GigabitEthernet":{"name":"2","mtu":9000}}`)
	c := newClient(t, ts)

	data, err := c.GetDeviceConfig(context.Background(), device, "/config/ios:interface/GigabitEthernet/2")
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "2", "mtu": float64(9000)}, data["tailf-ned-cisco-ios:GigabitEthernet"])

	_, err = c.GetDeviceConfig(context.Background(), device, "/config/ios:interface/GigabitEthernet/3")
	assert.Equal(t, "failed to get device data", err.Error())
}
