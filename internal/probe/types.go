package probe

import (
	"fmt"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"
)

// Method is the closed set of HTTP verbs a catalog entry may use.
// Anything else is rejected when the catalog is validated, not at
// dispatch time.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// UnmarshalYAML accepts the verb in any case and normalizes it.
func (m *Method) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return fmt.Errorf("unsupported method: %q", s)
	}
	*m = v
	return nil
}

// FilePart describes one file field of a multipart upload.
type FilePart struct {
	FileName    string `yaml:"filename"`
	ContentType string `yaml:"content_type"`
	Content     []byte `yaml:"-"`
	// Inline holds file content directly in a catalog file; Path reads
	// it from disk. Built-in cases set Content and ignore both.
	Inline string `yaml:"content"`
	Path   string `yaml:"path"`
}

// TestCase is one declarative endpoint invocation.
type TestCase struct {
	Name       string            `yaml:"name"`
	Method     Method            `yaml:"method"`
	Path       string            `yaml:"path"`
	PathParams map[string]string `yaml:"path_params"`
	// Body is the JSON payload; when Files is set it is sent as plain
	// multipart form fields instead.
	Body  map[string]any      `yaml:"body"`
	Files map[string]FilePart `yaml:"files"`
	// RequiresAuth is informational only: it marks entries expected to
	// answer 401/403 on an unauthenticated run. It never changes how
	// the entry is dispatched or classified.
	RequiresAuth bool `yaml:"requires_auth"`
}

// Body is the decoded payload of a response. At most one branch is
// set: JSON when the body parsed as JSON, Text otherwise. Decoding
// never fails; an unparseable body lands in Text verbatim.
type Body struct {
	JSON any
	Text string
}

// IsJSON reports whether the JSON branch is populated.
func (b Body) IsJSON() bool { return b.JSON != nil }

// Outcome is the normalized result of a single dispatch. It is always
// produced, success or failure: a transport-level error is represented
// as StatusCode 0 with TransportErr set, never as a Go error.
type Outcome struct {
	StatusCode   int
	Body         Body
	Headers      map[string]string
	TransportErr string
}

// Failed reports whether the request never reached the server.
func (o Outcome) Failed() bool { return o.StatusCode == 0 }

// Verdict is the three-way classification of an outcome.
type Verdict int

const (
	Pass Verdict = iota
	AuthRequired
	Fail
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "PASS"
	case AuthRequired:
		return "AUTH REQUIRED"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}
