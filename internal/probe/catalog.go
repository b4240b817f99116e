package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/excursiongpt/apiprobe/internal/common"
)

// Catalog is an ordered sequence of test cases. Order matters only for
// deterministic reporting: cases are independent and never feed each
// other state. Entries that would normally depend on earlier writes
// (adding a point to a track, for instance) use fixed placeholder
// identifiers instead.
type Catalog []TestCase

// Names returns the case names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, tc := range c {
		names = append(names, tc.Name)
	}
	return names
}

// Find looks up a case by exact name.
func (c Catalog) Find(name string) (TestCase, bool) {
	for _, tc := range c {
		if tc.Name == name {
			return tc, true
		}
	}
	return TestCase{}, false
}

// Validate checks the catalog before any request goes out: non-empty
// unique names, supported methods, and a bijection between `{param}`
// placeholders in the path and PathParams keys. A body declared on a
// GET or DELETE entry is legal but ignored at dispatch time, so it is
// logged as a warning rather than rejected.
func (c Catalog) Validate() error {
	logger := common.GetLogger().WithComponent("catalog")
	seen := make(map[string]struct{}, len(c))
	for i, tc := range c {
		if strings.TrimSpace(tc.Name) == "" {
			return configErrorf("case %d has an empty name", i)
		}
		if _, dup := seen[tc.Name]; dup {
			return configErrorf("duplicate case name %q", tc.Name)
		}
		seen[tc.Name] = struct{}{}
		if !tc.Method.Valid() {
			return configErrorf("case %q: unsupported method %q", tc.Name, string(tc.Method))
		}
		placeholders, err := pathPlaceholders(tc.Path)
		if err != nil {
			return configErrorf("case %q: %v", tc.Name, err)
		}
		for _, p := range placeholders {
			if _, ok := tc.PathParams[p]; !ok {
				return configErrorf("case %q: path placeholder {%s} has no matching path_param", tc.Name, p)
			}
		}
		for k := range tc.PathParams {
			if !containsString(placeholders, k) {
				return configErrorf("case %q: path_param %q has no {%s} placeholder in %s", tc.Name, k, k, tc.Path)
			}
		}
		if len(tc.Body) > 0 && (tc.Method == MethodGet || tc.Method == MethodDelete) {
			logger.Warn("body declared on body-less method, it will not be sent",
				"case", tc.Name, "method", string(tc.Method))
		}
	}
	return nil
}

// pathPlaceholders scans a path template for `{name}` segments.
func pathPlaceholders(path string) ([]string, error) {
	var out []string
	for rest := path; ; {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced '}' in path template %q", path)
			}
			return out, nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unbalanced '{' in path template %q", path)
		}
		name := rest[open+1 : open+closing]
		if name == "" {
			return nil, fmt.Errorf("empty placeholder in path template %q", path)
		}
		out = append(out, name)
		rest = rest[open+closing+1:]
	}
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

type catalogDoc struct {
	Cases []TestCase `yaml:"cases"`
}

// LoadCatalog reads a YAML catalog document. File parts may carry
// their content inline or point at a file on disk; both are resolved
// here so dispatch never touches the filesystem.
func LoadCatalog(path string) (Catalog, error) {
	clean := filepath.Clean(path)
	// #nosec G304 -- path comes from the CLI invocation
	f, err := os.Open(clean)
	if err != nil {
		return nil, configErrorf("open catalog %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	c, err := decodeCatalog(f)
	if err != nil {
		return nil, err
	}
	for i := range c {
		for field, part := range c[i].Files {
			resolved, rerr := part.resolve(filepath.Dir(clean))
			if rerr != nil {
				return nil, configErrorf("case %q file field %q: %v", c[i].Name, field, rerr)
			}
			c[i].Files[field] = resolved
		}
	}
	return c, nil
}

func decodeCatalog(r io.Reader) (Catalog, error) {
	var doc catalogDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, configErrorf("decode catalog yaml: %v", err)
	}
	if len(doc.Cases) == 0 {
		return nil, configErrorf("catalog document declares no cases")
	}
	return Catalog(doc.Cases), nil
}

func (p FilePart) resolve(baseDir string) (FilePart, error) {
	if len(p.Content) > 0 {
		return p, nil
	}
	switch {
	case p.Inline != "":
		p.Content = []byte(p.Inline)
	case p.Path != "":
		loc := p.Path
		if !filepath.IsAbs(loc) {
			loc = filepath.Join(baseDir, loc)
		}
		data, err := os.ReadFile(filepath.Clean(loc))
		if err != nil {
			return p, err
		}
		p.Content = data
	default:
		return p, fmt.Errorf("neither content nor path given")
	}
	if p.FileName == "" {
		if p.Path == "" {
			return p, fmt.Errorf("filename required for inline content")
		}
		p.FileName = filepath.Base(p.Path)
	}
	return p, nil
}

// DefaultCatalog is the built-in suite for the Excursion GPT service:
// health, building lookups, model upload and metadata, and track/point
// geography endpoints.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:   "health",
			Method: MethodGet,
			Path:   "/health",
		},
		{
			Name:   "buildings_around_point",
			Method: MethodPut,
			Path:   "/buildings",
			Body: map[string]any{
				"position": map[string]any{"x": 66.3333, "z": 65.4444},
				"distance": 1000,
			},
		},
		{
			Name:   "buildings_by_address",
			Method: MethodPut,
			Path:   "/buildings/address",
			Body:   map[string]any{"address": "Main Street 123"},
		},
		{
			Name:   "upload_model",
			Method: MethodPost,
			Path:   "/upload",
			Files: map[string]FilePart{
				"file": {
					FileName:    "test_model.glb",
					ContentType: "model/gltf-binary",
					Content:     []byte("Mock 3D model content"),
				},
			},
			RequiresAuth: true,
		},
		{
			Name:       "update_model_position",
			Method:     MethodPut,
			Path:       "/model/{model_id}",
			PathParams: map[string]string{"model_id": "test_model_001"},
			Body: map[string]any{
				"position": []any{10.0, 5.0, 15.0},
				"rotation": []any{0.0, 1.5, 0.0},
				"scale":    1.0,
			},
			RequiresAuth: true,
		},
		{
			Name:       "get_model_file",
			Method:     MethodGet,
			Path:       "/model/{model_id}",
			PathParams: map[string]string{"model_id": "test_model_001"},
		},
		{
			Name:   "get_model_by_address",
			Method: MethodPut,
			Path:   "/models/address",
			Body:   map[string]any{"address": "Building with model"},
		},
		{
			Name:       "save_model_metadata",
			Method:     MethodPatch,
			Path:       "/models/{model_id}",
			PathParams: map[string]string{"model_id": "test_model_001"},
			Body: map[string]any{
				"position": []any{66.3333, 0.0, 65.4444},
				"rotation": 1.5708,
				"scale":    1.5,
				"polygons": []any{"polygon_001", "polygon_002"},
				"address":  "Updated address",
			},
			RequiresAuth: true,
		},
		{
			Name:   "get_all_tracks",
			Method: MethodGet,
			Path:   "/tracks/",
		},
		{
			Name:       "get_track_by_id",
			Method:     MethodGet,
			Path:       "/tracks/{track_id}",
			PathParams: map[string]string{"track_id": "track_001"},
		},
		{
			Name:         "create_track",
			Method:       MethodPost,
			Path:         "/tracks",
			Body:         map[string]any{"name": "Test Track"},
			RequiresAuth: true,
		},
		{
			Name:         "delete_track",
			Method:       MethodDelete,
			Path:         "/tracks/{track_id}",
			PathParams:   map[string]string{"track_id": "track_999"},
			RequiresAuth: true,
		},
		{
			Name:       "add_point_to_track",
			Method:     MethodPost,
			Path:       "/tracks/{track_id}",
			PathParams: map[string]string{"track_id": "track_001"},
			Body: map[string]any{
				"name":     "Test Point",
				"type":     "viewpoint",
				"position": []any{55.7558, 0.0, 37.6173},
				"rotation": []any{0.0, 0.0, 0.0},
			},
			RequiresAuth: true,
		},
		{
			Name:       "update_point",
			Method:     MethodPut,
			Path:       "/tracks/{track_id}/{point_id}",
			PathParams: map[string]string{"track_id": "track_001", "point_id": "point_001"},
			Body: map[string]any{
				"name":     "Updated Point Name",
				"type":     "info",
				"position": []any{55.7560, 0.0, 37.6175},
				"rotation": []any{0.0, 1.57, 0.0},
			},
			RequiresAuth: true,
		},
		{
			Name:         "delete_point",
			Method:       MethodDelete,
			Path:         "/tracks/{track_id}/{point_id}",
			PathParams:   map[string]string{"track_id": "track_001", "point_id": "point_001"},
			RequiresAuth: true,
		},
	}
}

// LegacyCatalog covers the deprecated /api prefix routes that older
// Excursion GPT deployments still serve alongside the modern surface.
// All of them are read-only collection or lookup probes.
func LegacyCatalog() Catalog {
	return Catalog{
		{
			Name:   "legacy_buildings",
			Method: MethodGet,
			Path:   "/api/Buildings",
		},
		{
			Name:   "legacy_models",
			Method: MethodGet,
			Path:   "/api/Models",
		},
		{
			Name:   "legacy_tracks",
			Method: MethodGet,
			Path:   "/api/Tracks",
		},
		{
			Name:   "legacy_buildings_around_point",
			Method: MethodGet,
			Path:   "/api/Buildings/around-point/{lat}/{lon}/{session_id}",
			PathParams: map[string]string{
				"lat":        "55.7558",
				"lon":        "37.6173",
				"session_id": "123e4567-e89b-12d3-a456-426614174000",
			},
		},
	}
}
