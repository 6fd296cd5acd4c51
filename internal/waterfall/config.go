package waterfall

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/erictisme/outreach-ai-sub002/internal/provider"
)

// Config controls provider ordering and pacing for a run. It is passed
// into the orchestrator constructor rather than held as process state so
// concurrent runs with different preferences cannot interfere.
type Config struct {
	// Order is the provider priority list, tried front to back.
	Order []string
	// PageSize caps per-request results (cost control).
	PageSize int
	// CompanyPacing is the fixed delay between per-company calls under
	// one provider. Deliberately not a token bucket; the providers only
	// need coarse spacing.
	CompanyPacing time.Duration
	// RateLimitPause is how long to wait after a 429 before moving to
	// the next company under the same provider.
	RateLimitPause time.Duration
	// AdvanceDelayBase and AdvanceDelayJitter shape the pause between
	// provider attempts: base plus a random fraction of jitter.
	AdvanceDelayBase   time.Duration
	AdvanceDelayJitter time.Duration
}

// DefaultConfig returns the production provider order and pacing.
func DefaultConfig() Config {
	return Config{
		Order: []string{
			provider.NameStructuredSearch,
			provider.NameDomainSearch,
			provider.NameScraper,
		},
		PageSize:           provider.DefaultPageSize,
		CompanyPacing:      300 * time.Millisecond,
		RateLimitPause:     time.Second,
		AdvanceDelayBase:   100 * time.Millisecond,
		AdvanceDelayJitter: 200 * time.Millisecond,
	}
}

// fileConfig is the YAML shape; delays are plain milliseconds.
type fileConfig struct {
	Order                  []string `yaml:"order"`
	PageSize               int      `yaml:"page_size"`
	CompanyPacingMS        int      `yaml:"company_pacing_ms"`
	RateLimitPauseMS       int      `yaml:"rate_limit_pause_ms"`
	AdvanceDelayBaseMS     int      `yaml:"advance_delay_base_ms"`
	AdvanceDelayJitterMS   int      `yaml:"advance_delay_jitter_ms"`
}

// LoadConfig reads waterfall config from a YAML file, filling gaps from
// DefaultConfig. The file has a top-level "waterfall" key.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "waterfall: read config %s", path)
	}

	var wrapper struct {
		Waterfall fileConfig `yaml:"waterfall"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "waterfall: parse config")
	}

	fc := wrapper.Waterfall
	cfg := DefaultConfig()
	if len(fc.Order) > 0 {
		cfg.Order = fc.Order
	}
	if fc.PageSize > 0 {
		cfg.PageSize = fc.PageSize
	}
	if fc.CompanyPacingMS > 0 {
		cfg.CompanyPacing = time.Duration(fc.CompanyPacingMS) * time.Millisecond
	}
	if fc.RateLimitPauseMS > 0 {
		cfg.RateLimitPause = time.Duration(fc.RateLimitPauseMS) * time.Millisecond
	}
	if fc.AdvanceDelayBaseMS > 0 {
		cfg.AdvanceDelayBase = time.Duration(fc.AdvanceDelayBaseMS) * time.Millisecond
	}
	if fc.AdvanceDelayJitterMS > 0 {
		cfg.AdvanceDelayJitter = time.Duration(fc.AdvanceDelayJitterMS) * time.Millisecond
	}

	return &cfg, nil
}
