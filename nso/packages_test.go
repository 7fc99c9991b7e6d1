package nso_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/damianoneill/nsotest/envelope"
	"github.com/damianoneill/nsotest/nso"
	"github.com/damianoneill/nsotest/testserver"

	assert "github.com/stretchr/testify/require"
)

const reloadPath = "/operational/packages/_operations/reload"

func TestListPackages(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodGet, "/operational/packages", http.StatusOK,
		`{"tailf-ncs:packages":{"package":[{"name":"cisco-ios-cli-6.85"},{"name":"l3vpn","oper-status":{"up":[null]}}]}}`)

	packages, err := newClient(t, ts).ListPackages(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"cisco-ios-cli-6.85", "l3vpn"}, packages)
	assert.Equal(t, nso.MediaDataJSON, ts.LastRequest().Accept)
}

func TestListPackagesFailure(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()

	packages, err := newClient(t, ts).ListPackages(context.Background())
	assert.Nil(t, packages)
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Equal(t, "failed to retrieve package list", err.Error())
}

func TestReloadPackages(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodPost, reloadPath, http.StatusOK,
		`{"tailf-ncs:output":{"reload-result":[`+
			`{"package":"cisco-ios-cli-6.85","result":true},`+
			`{"package":"l3vpn","result":"false","info":"compilation failed"},`+
			`{"package":"loopback","result":"true"}]}}`)

	results, err := newClient(t, ts).ReloadPackages(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []nso.ReloadResult{
		{Package: "cisco-ios-cli-6.85", Result: true},
		{Package: "l3vpn", Result: false},
		{Package: "loopback", Result: true},
	}, results)
	assert.Equal(t, http.MethodPost, ts.LastRequest().Method)
}

func TestReloadPackagesSingleResult(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	ts.Respond(http.MethodPost, reloadPath, http.StatusOK,
		`{"tailf-ncs:output":{"reload-result":{"package":"l3vpn","result":true}}}`)

	results, err := newClient(t, ts).ReloadPackages(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []nso.ReloadResult{{Package: "l3vpn", Result: true}}, results)
}

func TestReloadPackagesFailure(t *testing.T) {
	ts := testserver.NewAPIServer(testserver.TestUserName, testserver.TestPassword)
	defer ts.Close()
	c := newClient(t, ts)

	_, err := c.ReloadPackages(context.Background())
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
	assert.Equal(t, "failed to reload packages", err.Error())

	ts.Respond(http.MethodPost, reloadPath, http.StatusOK, "reloading")
	_, err = c.ReloadPackages(context.Background())
	assert.True(t, envelope.IsKind(err, envelope.RemoteAPIError))
}
