package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Load reads YAML configuration from URL, unset fields keep default values
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration on top of Default
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if _, err := c.VersionPattern(); err != nil {
		return fmt.Errorf("invalid versionFormat %q: %w", c.VersionFormat, err)
	}
	for _, sink := range c.Sinks {
		if strings.TrimSpace(sink.Name) == "" {
			return fmt.Errorf("sink name was empty")
		}
		switch sink.Kind {
		case SinkSQL, SinkRequest:
		default:
			return fmt.Errorf("unsupported sink kind %q for %s", sink.Kind, sink.Name)
		}
	}
	if c.MaxTraceHops < 0 {
		return fmt.Errorf("maxTraceHops was negative: %d", c.MaxTraceHops)
	}
	return nil
}

// CanonicalVersion converts odoo series like 16.0 into semver form v16.0
func CanonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return ""
	}
	return version
}

func compareVersion(a, b string) int {
	ca, cb := CanonicalVersion(a), CanonicalVersion(b)
	if ca == "" || cb == "" {
		return strings.Compare(a, b)
	}
	return semver.Compare(ca, cb)
}
