// Package apiprobe exercises the REST surface of an Excursion GPT
// service end-to-end and classifies each endpoint's answer as PASS,
// AUTH REQUIRED or FAIL. The service itself is a black box: the probe
// only ever talks to it over HTTP.
package apiprobe

import (
	"context"

	"github.com/excursiongpt/apiprobe/internal/auth"
	"github.com/excursiongpt/apiprobe/internal/probe"
)

// Re-export commonly used types for public API

// TestCase is one declarative endpoint invocation.
type TestCase = probe.TestCase

// FilePart describes one file field of a multipart upload.
type FilePart = probe.FilePart

// Catalog is an ordered sequence of test cases.
type Catalog = probe.Catalog

// Outcome is the normalized result of a single dispatch.
type Outcome = probe.Outcome

// Verdict is the three-way classification of an outcome.
type Verdict = probe.Verdict

// Report is a finalized run summary.
type Report = probe.Report

// Runner drives a catalog against one service instance.
type Runner = probe.Runner

// AuthContext holds the optional bearer token a run carries.
type AuthContext = auth.Context

// Verdict values.
const (
	Pass         = probe.Pass
	AuthRequired = probe.AuthRequired
	Fail         = probe.Fail
)

// DefaultBaseURL is where a locally run Excursion GPT service listens.
const DefaultBaseURL = probe.DefaultBaseURL

// DefaultCatalog returns the built-in Excursion GPT endpoint suite.
func DefaultCatalog() Catalog { return probe.DefaultCatalog() }

// LegacyCatalog returns probes for the deprecated /api prefix routes.
func LegacyCatalog() Catalog { return probe.LegacyCatalog() }

// LoadCatalog reads a YAML catalog document from disk.
func LoadCatalog(path string) (Catalog, error) { return probe.LoadCatalog(path) }

// Classify maps an outcome onto its verdict from the status code alone.
func Classify(o Outcome) Verdict { return probe.Classify(o) }

// NewRunner returns a runner over the given catalog with the default
// HTTP client and an empty auth context.
func NewRunner(baseURL string, catalog Catalog) *Runner {
	return probe.NewRunner(baseURL, catalog)
}

// Run validates the catalog and dispatches every case in order,
// returning the finalized report. token may be empty.
func Run(ctx context.Context, baseURL, token string, catalog Catalog) (*Report, error) {
	r := probe.NewRunner(baseURL, catalog)
	if token != "" {
		r.Auth.Set(token)
	}
	return r.RunAll(ctx)
}

// RunOne dispatches the single named case from the catalog.
func RunOne(ctx context.Context, baseURL, token, name string, catalog Catalog) (Outcome, Verdict, error) {
	r := probe.NewRunner(baseURL, catalog)
	if token != "" {
		r.Auth.Set(token)
	}
	return r.RunOne(ctx, name)
}
