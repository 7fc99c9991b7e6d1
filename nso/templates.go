package nso

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/Masterminds/sprig/v3"
	"github.com/clbanning/mxj"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// NonexistentResource is the error message reported when patching a resource that does not exist.
const NonexistentResource = "patch to a nonexistent resource"

// ErrorMessagePath locates the message in an XML error response.
const ErrorMessagePath = "errors.error.error-message"

// loadMarkup reads the named template, parses it as XML and reserializes it in document order.
func (c *clientImpl) loadMarkup(name string) (string, error) {
	path := c.cfg.TemplatePath(name)
	b, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return "", envelope.WrapError(envelope.ConfigurationError, err, "failed to read template: "+path)
	}
	out, err := reserialize(b)
	if err != nil {
		return "", envelope.WrapError(envelope.ConfigurationError, err, "failed to parse template: "+path)
	}
	return out, nil
}

// reserialize round trips an XML document keeping sibling order, repeated elements in place
// and any declaration, comment or directive ahead of the root element.
func reserialize(b []byte) (string, error) {
	r := bytes.NewReader(b)
	var parts []string
	for {
		m, err := mxj.NewMapXmlSeqReader(r)
		switch {
		case err == nil:
			root, err := m.XmlSeq()
			if err != nil {
				return "", errors.Wrap(err, "failed to serialize markup")
			}
			return strings.Join(append(parts, string(root)), "\n"), nil
		case errors.Is(err, mxj.NoRoot):
			parts = append(parts, prolog(m))
		case errors.Is(err, io.EOF):
			return "", errors.New("no root element")
		default:
			return "", err
		}
	}
}

func prolog(m mxj.Map) string {
	if pi, ok := m["#procinst"].(map[string]interface{}); ok {
		return fmt.Sprintf("<?%v %v?>", pi["#target"], pi["#inst"])
	}
	if text, ok := m["#comment"]; ok {
		return fmt.Sprintf("<!--%v-->", text)
	}
	return fmt.Sprintf("<!%v>", m["#directive"])
}

// render loads the named template and executes it with values available as .config.
func (c *clientImpl) render(name string, values map[string]interface{}) (string, error) {
	markup, err := c.loadMarkup(name)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(markup)
	if err != nil {
		return "", envelope.WrapError(envelope.ConfigurationError, err, "failed to parse template: "+name)
	}
	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, map[string]interface{}{"config": values}); err != nil {
		return "", envelope.WrapError(envelope.ConfigurationError, err, "failed to render template: "+name)
	}
	return buf.String(), nil
}

func (c *clientImpl) PushDeviceConfig(ctx context.Context, device, name string, values map[string]interface{}) error {
	body, err := c.render(name, values)
	if err != nil {
		ContextClientTrace(ctx).Error("PushDeviceConfig", name, err)
		return err
	}
	_, err = c.expect(ctx, request{method: http.MethodPatch, path: devicePath(device) + "/config/", accept: MediaDatastoreXML, body: body},
		http.StatusNoContent, "error posting config")
	return err
}

func (c *clientImpl) InstallDeviceTrace(ctx context.Context, device, file string) error {
	body, err := c.loadMarkup(file)
	if err != nil {
		ContextClientTrace(ctx).Error("InstallDeviceTrace", file, err)
		return err
	}
	_, err = c.expect(ctx, request{method: http.MethodPut, path: devicePath(device) + "/trace", accept: MediaDataJSON, body: body},
		http.StatusNoContent, "failed to install device trace: "+device)
	return err
}

func (c *clientImpl) RemoveDeviceTrace(ctx context.Context, device, file string) error {
	msg := "failed to remove device trace: " + device
	body, err := c.loadMarkup(file)
	if err != nil {
		ContextClientTrace(ctx).Error("RemoveDeviceTrace", file, err)
		return err
	}
	resp, err := c.do(ctx, request{method: http.MethodPatch, path: devicePath(device) + "/trace", accept: MediaDataJSON, body: body})
	if err != nil {
		return envelope.MaskError(envelope.RemoteAPIError, err, msg)
	}

	switch resp.StatusCode() {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		m, err := mxj.NewMapXml(resp.Body())
		if err != nil {
			return envelope.MaskError(envelope.RemoteAPIError, err, msg)
		}
		v, err := m.ValueForPath(ErrorMessagePath)
		if err != nil {
			return envelope.MaskError(envelope.RemoteAPIError, err, msg)
		}
		reason, ok := v.(string)
		if !ok {
			return envelope.NewError(envelope.RemoteAPIError, msg)
		}
		if reason == NonexistentResource {
			return nil
		}
		return envelope.NewError(envelope.RemoteAPIError, reason)
	default:
		return envelope.NewError(envelope.RemoteAPIError, msg)
	}
}
