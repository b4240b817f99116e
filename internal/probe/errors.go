package probe

import (
	"fmt"
	"strings"
)

// ConfigurationError marks a defect in the catalog or run setup. It is
// raised before any request is dispatched (or when finalizing an empty
// run) and is fatal: per-endpoint failures never produce it.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a single-test run that named a case absent
// from the catalog. Valid carries the full list of known names so the
// message is corrective rather than just negative.
type NotFoundError struct {
	Name  string
	Valid []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown test: %q (available: %s)", e.Name, strings.Join(e.Valid, ", "))
}
