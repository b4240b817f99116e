package probe

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/excursiongpt/apiprobe/internal/common"
)

// Entry pairs a case name with its verdict, in the order the cases
// were recorded. StatusCode is carried for the report line only; -1
// means no outcome was captured for this entry.
type Entry struct {
	Name       string
	Verdict    Verdict
	StatusCode int
}

// Summary accumulates verdicts during a run. Zero value is ready to
// use; call order defines report order.
type Summary struct {
	entries []Entry
}

// Record appends a verdict for the named case.
func (s *Summary) Record(name string, v Verdict) {
	s.entries = append(s.entries, Entry{Name: name, Verdict: v, StatusCode: -1})
}

// RecordOutcome classifies the outcome, records it under the given
// name and returns the verdict.
func (s *Summary) RecordOutcome(name string, o Outcome) Verdict {
	v := Classify(o)
	s.entries = append(s.entries, Entry{Name: name, Verdict: v, StatusCode: o.StatusCode})
	return v
}

// Len returns the number of recorded entries.
func (s *Summary) Len() int { return len(s.entries) }

// Report is a finalized run summary.
type Report struct {
	Entries    []Entry
	PassCount  int
	TotalCount int
	// PassRate is a percentage rounded to one decimal place.
	PassRate float64
}

// Finalize derives the counts and pass rate. Finalizing an empty
// summary is a configuration error, never a division by zero.
func (s *Summary) Finalize() (*Report, error) {
	if len(s.entries) == 0 {
		return nil, configErrorf("cannot finalize an empty run summary")
	}
	pass := 0
	for _, e := range s.entries {
		if e.Verdict == Pass {
			pass++
		}
	}
	rate := float64(pass) / float64(len(s.entries)) * 100
	return &Report{
		Entries:    append([]Entry(nil), s.entries...),
		PassCount:  pass,
		TotalCount: len(s.entries),
		PassRate:   math.Round(rate*10) / 10,
	}, nil
}

// AllPassed reports whether every recorded verdict is Pass.
func (r *Report) AllPassed() bool { return r.PassCount == r.TotalCount }

// Render writes the human-readable summary table.
func (r *Report) Render(w io.Writer, colored bool) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Test Summary")
	fmt.Fprintln(w, rule)
	for _, e := range r.Entries {
		status := verdictLabel(e.Verdict, colored)
		if e.StatusCode >= 0 {
			fmt.Fprintf(w, "%-30s %-26s Status: %d\n", e.Name, status, e.StatusCode)
		} else {
			fmt.Fprintf(w, "%-30s %s\n", e.Name, status)
		}
	}
	fmt.Fprintf(w, "\nSuccess Rate: %d/%d (%.1f%%)\n", r.PassCount, r.TotalCount, r.PassRate)
}

func verdictLabel(v Verdict, colored bool) string {
	var mark, color string
	switch v {
	case Pass:
		mark, color = "✓ PASS", common.Green
	case AuthRequired:
		mark, color = "⚠ AUTH REQUIRED", common.Yellow
	default:
		mark, color = "✗ FAIL", common.Red
	}
	if !colored {
		return mark
	}
	return color + mark + common.Reset
}
