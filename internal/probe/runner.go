package probe

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/excursiongpt/apiprobe/internal/auth"
	"github.com/excursiongpt/apiprobe/internal/common"
	"github.com/excursiongpt/apiprobe/internal/httpc"
)

// DefaultBaseURL is where a locally run Excursion GPT service listens.
const DefaultBaseURL = "http://localhost:5000"

// Runner drives a catalog against one service instance. Execution is
// strictly sequential: a case's dispatch, classification and recording
// complete before the next case starts, and no failure short-circuits
// the run.
type Runner struct {
	BaseURL string
	Catalog Catalog
	Auth    *auth.Context
	Client  *resty.Client
}

// NewRunner returns a runner over the given catalog with the default
// HTTP client and an empty auth context.
func NewRunner(baseURL string, catalog Catalog) *Runner {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Runner{
		BaseURL: baseURL,
		Catalog: catalog,
		Auth:    &auth.Context{},
	}
}

func (r *Runner) client() *resty.Client {
	if r.Client != nil {
		return r.Client
	}
	h := httpc.Httpc{}
	r.Client = h.New()
	return r.Client
}

// RunAll validates the catalog, dispatches every case in order and
// returns the finalized report. Endpoint failures are data in the
// report; only setup problems surface as errors.
func (r *Runner) RunAll(ctx context.Context) (*Report, error) {
	if err := r.Catalog.Validate(); err != nil {
		return nil, err
	}
	logger := common.GetLogger().WithComponent("runner")
	logger.Info("starting suite", "base_url", r.BaseURL, "cases", len(r.Catalog),
		"authenticated", r.Auth.IsSet())

	d := &Dispatcher{Client: r.client(), BaseURL: r.BaseURL}
	var sum Summary
	for _, tc := range r.Catalog {
		outcome := d.Dispatch(ctx, tc, r.Auth)
		verdict := sum.RecordOutcome(tc.Name, outcome)
		if outcome.Failed() {
			logger.Warn("case never reached the service",
				"case", tc.Name, "error", outcome.TransportErr)
			continue
		}
		logger.Info("case completed", "case", tc.Name,
			"status_code", outcome.StatusCode, "verdict", verdict.String())
	}
	return sum.Finalize()
}

// RunOne dispatches the single named case. The catalog is still
// validated first so a broken catalog fails the same way in both
// modes. An unknown name yields a NotFoundError and nothing is
// dispatched.
func (r *Runner) RunOne(ctx context.Context, name string) (Outcome, Verdict, error) {
	if err := r.Catalog.Validate(); err != nil {
		return Outcome{}, Fail, err
	}
	tc, ok := r.Catalog.Find(name)
	if !ok {
		return Outcome{}, Fail, &NotFoundError{Name: name, Valid: r.Catalog.Names()}
	}
	d := &Dispatcher{Client: r.client(), BaseURL: r.BaseURL}
	outcome := d.Dispatch(ctx, tc, r.Auth)
	return outcome, Classify(outcome), nil
}
