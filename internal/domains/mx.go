package domains

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MXLookupFunc resolves the MX records for a domain. Injectable for tests.
type MXLookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// MXChecker answers "is this domain configured to receive mail" for the
// verification pass. Lookups are deduplicated per domain within a run.
type MXChecker struct {
	lookup  MXLookupFunc
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]bool
}

// NewMXChecker creates a checker backed by the system resolver.
func NewMXChecker() *MXChecker {
	resolver := &net.Resolver{}
	return &MXChecker{
		lookup:  resolver.LookupMX,
		timeout: 5 * time.Second,
		cache:   make(map[string]bool),
	}
}

// WithLookup overrides the DNS lookup function (for testing).
func (c *MXChecker) WithLookup(fn MXLookupFunc) *MXChecker {
	c.lookup = fn
	return c
}

// HasMX reports whether the domain has at least one MX record. Results are
// cached for the lifetime of the checker; a lookup failure counts as "no".
func (c *MXChecker) HasMX(ctx context.Context, domain string) bool {
	if domain == "" {
		return false
	}

	c.mu.Lock()
	if v, ok := c.cache[domain]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	records, err := c.lookup(lookupCtx, domain)
	has := err == nil && len(records) > 0
	if err != nil {
		zap.L().Debug("domains: mx lookup failed",
			zap.String("domain", domain),
			zap.Error(err),
		)
	}

	c.mu.Lock()
	c.cache[domain] = has
	c.mu.Unlock()
	return has
}

// CheckAll resolves MX status for every unique domain in parallel and
// returns the full map. Run before fanning out per-person work so scoring
// reads a pre-computed map instead of racing on live lookups.
func (c *MXChecker) CheckAll(ctx context.Context, domainList []string) map[string]bool {
	unique := make([]string, 0, len(domainList))
	seen := make(map[string]struct{}, len(domainList))
	for _, d := range domainList {
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, d)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(10)
	for _, d := range unique {
		g.Go(func() error {
			c.HasMX(gCtx, d)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]bool, len(unique))
	c.mu.Lock()
	for _, d := range unique {
		out[d] = c.cache[d]
	}
	c.mu.Unlock()
	return out
}
