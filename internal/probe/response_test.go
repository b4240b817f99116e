package probe

import (
	"reflect"
	"testing"
)

func TestClassify_StatusBuckets(t *testing.T) {
	tests := []struct {
		status int
		want   Verdict
	}{
		{200, Pass},
		{201, Pass},
		{204, Pass},
		{299, Pass},
		{401, AuthRequired},
		{403, AuthRequired},
		{0, Fail},
		{199, Fail},
		{300, Fail},
		{400, Fail},
		{404, Fail},
		{418, Fail},
		{500, Fail},
		{503, Fail},
	}
	for _, tt := range tests {
		if got := Classify(Outcome{StatusCode: tt.status}); got != tt.want {
			t.Fatalf("Classify(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestClassify_IgnoresEverythingButStatus(t *testing.T) {
	variants := []Outcome{
		{StatusCode: 403},
		{StatusCode: 403, Body: Body{JSON: map[string]any{"error": "forbidden"}}},
		{StatusCode: 403, Body: Body{Text: "nope"}, Headers: map[string]string{"X-A": "b"}},
	}
	for _, o := range variants {
		if Classify(o) != AuthRequired {
			t.Fatalf("classification must depend on status code alone: %+v", o)
		}
	}
}

func TestDecodeBody(t *testing.T) {
	obj := DecodeBody([]byte(`{"buildings": []}`))
	if !obj.IsJSON() {
		t.Fatalf("expected JSON branch")
	}
	want := map[string]any{"buildings": []any{}}
	if !reflect.DeepEqual(obj.JSON, want) {
		t.Fatalf("decoded %v, want %v", obj.JSON, want)
	}

	arr := DecodeBody([]byte(`[1, 2]`))
	if !arr.IsJSON() {
		t.Fatalf("arrays are JSON too")
	}

	text := DecodeBody([]byte(`<html>not json</html>`))
	if text.IsJSON() || text.Text != "<html>not json</html>" {
		t.Fatalf("expected verbatim text fallback, got %+v", text)
	}

	empty := DecodeBody(nil)
	if empty.IsJSON() || empty.Text != "" {
		t.Fatalf("empty body must decode to the zero Body")
	}
}

func TestDecodeBody_NestedStructures(t *testing.T) {
	got := DecodeBody([]byte(`{"position": {"x": 66.3333, "z": 65.4444}, "ids": ["a", "b"], "count": 2, "ok": true}`))
	if !got.IsJSON() {
		t.Fatalf("expected JSON branch, got %+v", got)
	}
	want := map[string]any{
		"position": map[string]any{"x": 66.3333, "z": 65.4444},
		"ids":      []any{"a", "b"},
		"count":    float64(2),
		"ok":       true,
	}
	if !reflect.DeepEqual(got.JSON, want) {
		t.Fatalf("decoded %#v, want %#v", got.JSON, want)
	}
}

func TestDecodeBody_TruncatedJSONFallsBackToText(t *testing.T) {
	got := DecodeBody([]byte(`{"buildings": [`))
	if got.IsJSON() || got.Text != `{"buildings": [` {
		t.Fatalf("truncated document must fall back verbatim, got %+v", got)
	}
}

func TestVerdict_String(t *testing.T) {
	if Pass.String() != "PASS" || AuthRequired.String() != "AUTH REQUIRED" || Fail.String() != "FAIL" {
		t.Fatalf("unexpected verdict labels: %s %s %s", Pass, AuthRequired, Fail)
	}
}
