package nso

import (
	"context"
	"net/http"
	"strings"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/tidwall/gjson"
)

const packagesPath = "/operational/packages"

func (c *clientImpl) ListPackages(ctx context.Context) ([]string, error) {
	resp, err := c.expect(ctx, request{method: http.MethodGet, path: packagesPath, accept: MediaDataJSON},
		http.StatusOK, "failed to retrieve package list")
	if err != nil {
		return nil, err
	}
	return names(resp.Body(), "tailf-ncs:packages.package.#.name"), nil
}

func (c *clientImpl) ReloadPackages(ctx context.Context) ([]ReloadResult, error) {
	resp, err := c.expect(ctx, request{method: http.MethodPost, path: packagesPath + "/_operations/reload", accept: MediaDataJSON},
		http.StatusOK, "failed to reload packages")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resp.Body()) {
		return nil, envelope.NewError(envelope.RemoteAPIError, "failed to parse reload response")
	}

	// A single result may be reported as an object rather than an array.
	results := []ReloadResult{}
	for _, v := range gjson.GetBytes(resp.Body(), "tailf-ncs:output.reload-result").Array() {
		results = append(results, ReloadResult{
			Package: v.Get("package").String(),
			Result:  strings.EqualFold(v.Get("result").String(), "true"),
		})
	}
	return results, nil
}
