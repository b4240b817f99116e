package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/excursiongpt/apiprobe/internal/auth"
	"github.com/excursiongpt/apiprobe/internal/common"
)

// Dispatcher issues catalog entries against one base URL. It owns no
// per-request state; every call yields a fresh Outcome.
type Dispatcher struct {
	Client  *resty.Client
	BaseURL string
}

// Dispatch resolves the case's path, encodes its payload and performs
// the HTTP call. It never returns an error: transport-level failures
// come back as an Outcome with StatusCode 0 and TransportErr set.
//
// Encoding policy: files present -> multipart (body entries become
// plain form fields); otherwise a JSON body for POST-with-body and
// always for PUT/PATCH (empty object when the case declares none);
// GET and DELETE are sent body-less regardless of what the case says.
func (d *Dispatcher) Dispatch(ctx context.Context, tc TestCase, ac *auth.Context) Outcome {
	url := strings.TrimRight(d.BaseURL, "/") + ResolvePath(tc.Path, tc.PathParams)
	logger := common.GetLogger().WithComponent("dispatch").WithRequest(string(tc.Method), url)
	logger.Debug("dispatching case", "case", tc.Name)

	req := d.Client.R().SetContext(ctx)
	if tok := ac.Token(); tok != "" {
		req.SetAuthToken(tok)
	}

	switch {
	case len(tc.Files) > 0:
		for field, part := range tc.Files {
			req.SetMultipartField(field, part.FileName, part.ContentType, bytes.NewReader(part.Content))
		}
		if len(tc.Body) > 0 {
			req.SetFormData(formFields(tc.Body))
		}
	case tc.Method == MethodPut || tc.Method == MethodPatch:
		payload := tc.Body
		if payload == nil {
			payload = map[string]any{}
		}
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(payload)
	case tc.Method == MethodPost && len(tc.Body) > 0:
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(tc.Body)
	}

	resp, err := execByMethod(req, tc.Method, url)
	if err != nil {
		logger.Warn("transport failure", "case", tc.Name, "error", err)
		return Outcome{StatusCode: 0, TransportErr: err.Error()}
	}

	out := Outcome{
		StatusCode: resp.StatusCode(),
		Body:       DecodeBody(resp.Body()),
		Headers:    flattenHeaders(resp.Header()),
	}
	logger.Debug("response received", "case", tc.Name,
		"status_code", out.StatusCode, "response_size", len(resp.Body()))
	return out
}

// ResolvePath substitutes every `{param}` in the template. Validation
// has already guaranteed the placeholder/param bijection, so plain
// string replacement is enough here.
func ResolvePath(template string, params map[string]string) string {
	resolved := template
	for k, v := range params {
		resolved = strings.ReplaceAll(resolved, "{"+k+"}", v)
	}
	return resolved
}

func execByMethod(req *resty.Request, method Method, url string) (*resty.Response, error) {
	switch method {
	case MethodGet:
		return req.Get(url)
	case MethodPost:
		return req.Post(url)
	case MethodPut:
		return req.Put(url)
	case MethodPatch:
		return req.Patch(url)
	case MethodDelete:
		return req.Delete(url)
	default:
		// Unreachable once the catalog has been validated.
		return nil, fmt.Errorf("unsupported method: %s", method)
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

// formFields renders body entries as multipart form field values.
func formFields(body map[string]any) map[string]string {
	m := make(map[string]string, len(body))
	for k, v := range body {
		m[k] = anyToString(v)
	}
	return m
}

func anyToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		// Avoid scientific notation for integers
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		// Fallback to JSON
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		b = bytes.TrimSpace(b)
		if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
			return string(b[1 : len(b)-1])
		}
		return string(b)
	}
}
