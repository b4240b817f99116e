package probe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog_IsValid(t *testing.T) {
	c := DefaultCatalog()
	if len(c) != 15 {
		t.Fatalf("expected 15 built-in cases, got %d", len(c))
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("built-in catalog must validate: %v", err)
	}
}

func TestDefaultCatalog_PathsResolveCompletely(t *testing.T) {
	for _, tc := range DefaultCatalog() {
		resolved := ResolvePath(tc.Path, tc.PathParams)
		if strings.ContainsAny(resolved, "{}") {
			t.Fatalf("case %q: unresolved placeholder in %q", tc.Name, resolved)
		}
	}
}

func TestLegacyCatalog_SupplementsDefaultSuite(t *testing.T) {
	legacy := LegacyCatalog()
	if len(legacy) != 4 {
		t.Fatalf("expected 4 legacy cases, got %d", len(legacy))
	}
	for _, tc := range legacy {
		if tc.Method != MethodGet {
			t.Fatalf("legacy probes are read-only, %q declares %s", tc.Name, tc.Method)
		}
		resolved := ResolvePath(tc.Path, tc.PathParams)
		if !strings.HasPrefix(resolved, "/api/") {
			t.Fatalf("legacy case %q must target the /api prefix, resolved to %s", tc.Name, resolved)
		}
		if strings.ContainsAny(resolved, "{}") {
			t.Fatalf("legacy case %q left placeholders unresolved: %s", tc.Name, resolved)
		}
	}

	// The legacy set is appended to whichever catalog a run uses, so
	// the combination must validate as one suite.
	combined := append(DefaultCatalog(), legacy...)
	if err := combined.Validate(); err != nil {
		t.Fatalf("combined catalog must validate: %v", err)
	}
}

func TestCatalog_Validate_Errors(t *testing.T) {
	base := TestCase{Name: "ok", Method: MethodGet, Path: "/health"}
	tests := []struct {
		name    string
		catalog Catalog
		wantSub string
	}{
		{
			name:    "empty name",
			catalog: Catalog{{Method: MethodGet, Path: "/x"}},
			wantSub: "empty name",
		},
		{
			name:    "duplicate name",
			catalog: Catalog{base, base},
			wantSub: "duplicate",
		},
		{
			name:    "bad method",
			catalog: Catalog{{Name: "a", Method: Method("TRACE"), Path: "/x"}},
			wantSub: "unsupported method",
		},
		{
			name:    "placeholder without param",
			catalog: Catalog{{Name: "a", Method: MethodGet, Path: "/tracks/{track_id}"}},
			wantSub: "no matching path_param",
		},
		{
			name: "param without placeholder",
			catalog: Catalog{{
				Name: "a", Method: MethodGet, Path: "/tracks",
				PathParams: map[string]string{"track_id": "t1"},
			}},
			wantSub: "no {track_id} placeholder",
		},
		{
			name:    "unbalanced brace",
			catalog: Catalog{{Name: "a", Method: MethodGet, Path: "/tracks/{track_id"}},
			wantSub: "unbalanced",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigurationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestCatalog_Validate_AllowsBodyOnDelete(t *testing.T) {
	// A body on DELETE is ignored at dispatch time but must not make
	// the catalog invalid.
	c := Catalog{{
		Name: "del", Method: MethodDelete, Path: "/tracks/{id}",
		PathParams: map[string]string{"id": "t1"},
		Body:       map[string]any{"force": true},
	}}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCatalog_FindAndNames(t *testing.T) {
	c := DefaultCatalog()
	tc, ok := c.Find("create_track")
	if !ok || tc.Method != MethodPost || tc.Path != "/tracks" {
		t.Fatalf("Find returned wrong case: %+v ok=%v", tc, ok)
	}
	if _, ok := c.Find("nonexistent"); ok {
		t.Fatalf("Find must miss unknown names")
	}
	names := c.Names()
	if len(names) != len(c) || names[0] != "health" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestDecodeCatalog_YAML(t *testing.T) {
	doc := `
cases:
  - name: ping
    method: get
    path: /health
  - name: make_track
    method: POST
    path: /tracks
    body:
      name: Test Track
    requires_auth: true
`
	c, err := decodeCatalog(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(c) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(c))
	}
	if c[0].Method != MethodGet {
		t.Fatalf("lowercase method not normalized: %q", c[0].Method)
	}
	if !c[1].RequiresAuth || c[1].Body["name"] != "Test Track" {
		t.Fatalf("unexpected second case: %+v", c[1])
	}
}

func TestDecodeCatalog_RejectsUnknownMethod(t *testing.T) {
	doc := `
cases:
  - name: bad
    method: FETCH
    path: /x
`
	if _, err := decodeCatalog(strings.NewReader(doc)); err == nil {
		t.Fatalf("expected error for unsupported method")
	}
}

func TestDecodeCatalog_RejectsEmptyDocument(t *testing.T) {
	if _, err := decodeCatalog(strings.NewReader("cases: []")); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}

func TestLoadCatalog_ResolvesFileParts(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.glb")
	if err := os.WriteFile(modelPath, []byte("binary-model"), 0o600); err != nil {
		t.Fatal(err)
	}
	doc := `
cases:
  - name: upload_inline
    method: POST
    path: /upload
    files:
      file:
        filename: inline.glb
        content_type: model/gltf-binary
        content: inline-data
  - name: upload_from_disk
    method: POST
    path: /upload
    files:
      file:
        content_type: model/gltf-binary
        path: model.glb
`
	catPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catPath, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(catPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	inline := c[0].Files["file"]
	if string(inline.Content) != "inline-data" || inline.FileName != "inline.glb" {
		t.Fatalf("inline part not resolved: %+v", inline)
	}
	disk := c[1].Files["file"]
	if string(disk.Content) != "binary-model" || disk.FileName != "model.glb" {
		t.Fatalf("disk part not resolved: %+v", disk)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing catalog file")
	}
}
