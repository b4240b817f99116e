package httpc

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
)

// Httpc builds the resty client the probe dispatches through.
type Httpc struct {
	TlsConfig *tls.Config
	// Timeout bounds a single request; zero means no limit, matching
	// the behavior conformance runs expect by default.
	Timeout time.Duration
}

// New returns a resty.Client configured according to the receiver's
// settings. Defaults: MinVersion TLS1.3 when MinVersion is zero.
// Retries stay disabled: a conformance probe must report the first
// answer the service gives, not the best of several attempts.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	if h.Timeout > 0 {
		c.SetTimeout(h.Timeout)
	}
	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS13
	}
	c.SetTLSClientConfig(cfg)
	return c
}
