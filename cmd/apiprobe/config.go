package main

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/excursiongpt/apiprobe/internal/common"
	"github.com/excursiongpt/apiprobe/internal/httpc"
)

type LoggingConfig struct {
	Level string `yaml:"level"` // error, warn, info, debug
	// Format selects text, json or color output; color falls back to
	// plain text when stderr is not a terminal.
	Format        string `yaml:"format"`
	MaskSensitive *bool  `yaml:"mask_sensitive"`
}

type ClientConfig struct {
	Insecure      bool   `yaml:"insecure"`
	MinTLSVersion string `yaml:"min_tls_version"`
	Timeout       string `yaml:"timeout"`
}

// ConfigDoc is the optional YAML document behind --config. Flags and
// APIPROBE_* environment variables override anything set here.
type ConfigDoc struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Catalog string        `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
	Client  ClientConfig  `yaml:"client"`
}

// Load reads and decodes the document at path into the receiver.
func (d *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// #nosec G304 -- path is provided on the command line
	data, err := os.ReadFile(clean)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, d); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// BuildLogger constructs the process logger from the logging section.
func (d *ConfigDoc) BuildLogger(level string) *common.Logger {
	if level == "" {
		level = d.Logging.Level
	}
	lv := common.ParseLogLevel(level)
	switch d.Logging.Format {
	case "json":
		return common.NewJSONLogger(lv)
	case "text":
		return common.NewLogger(lv)
	default:
		h := common.NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: lv.ToSlogLevel()})
		if d.Logging.MaskSensitive != nil {
			m := common.NewMasker()
			m.SetEnabled(*d.Logging.MaskSensitive)
			h.SetMasker(m)
		}
		return common.NewLoggerWithHandler(h, lv)
	}
}

// BuildClient turns the client section into an HTTP client factory.
func (d *ConfigDoc) BuildClient() (*httpc.Httpc, error) {
	h := &httpc.Httpc{}
	if d.Client.Timeout != "" {
		t, err := time.ParseDuration(d.Client.Timeout)
		if err != nil {
			return nil, fmt.Errorf("client.timeout: %w", err)
		}
		h.Timeout = t
	}
	if d.Client.Insecure || d.Client.MinTLSVersion != "" {
		cfg := &tls.Config{InsecureSkipVerify: d.Client.Insecure} // #nosec G402 -- explicit opt-in
		switch d.Client.MinTLSVersion {
		case "1.2":
			cfg.MinVersion = tls.VersionTLS12
		case "1.3", "":
			cfg.MinVersion = tls.VersionTLS13
		default:
			return nil, fmt.Errorf("client.min_tls_version: unsupported %q", d.Client.MinTLSVersion)
		}
		h.TlsConfig = cfg
	}
	return h, nil
}
