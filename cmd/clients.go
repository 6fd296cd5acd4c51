package main

import (
	"context"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/erictisme/outreach-ai-sub002/internal/aiguess"
	"github.com/erictisme/outreach-ai-sub002/internal/domains"
	"github.com/erictisme/outreach-ai-sub002/internal/provider"
	"github.com/erictisme/outreach-ai-sub002/internal/store"
	"github.com/erictisme/outreach-ai-sub002/internal/verify"
	"github.com/erictisme/outreach-ai-sub002/internal/waterfall"
	anthropicpkg "github.com/erictisme/outreach-ai-sub002/pkg/anthropic"
	"github.com/erictisme/outreach-ai-sub002/pkg/apollo"
	"github.com/erictisme/outreach-ai-sub002/pkg/hunter"
	"github.com/erictisme/outreach-ai-sub002/pkg/jina"
	sfpkg "github.com/erictisme/outreach-ai-sub002/pkg/salesforce"
)

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
}

// buildRegistry registers an adapter for every provider with credentials.
// Providers without a key stay out of the waterfall entirely. creds holds
// per-run overrides keyed by provider name; configured keys fill the gaps.
func buildRegistry(creds map[string]string) *provider.Registry {
	key := func(name, configured string) string {
		if creds[name] != "" {
			return creds[name]
		}
		return configured
	}

	registry := provider.NewRegistry()

	if k := key(provider.NameStructuredSearch, cfg.Providers.ApolloKey); k != "" {
		client := apollo.NewClient(k, apollo.WithBaseURL(cfg.Providers.ApolloBaseURL))
		registry.Register(provider.NewStructuredSearch(client))
	}
	if k := key(provider.NameDomainSearch, cfg.Providers.HunterKey); k != "" {
		client := hunter.NewClient(k, hunter.WithBaseURL(cfg.Providers.HunterBaseURL))
		registry.Register(provider.NewDomainSearch(client))
	}
	if k := key(provider.NameScraper, cfg.Jina.Key); k != "" {
		client := jina.NewClient(k,
			jina.WithBaseURL(cfg.Jina.BaseURL),
			jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL),
		)
		registry.Register(provider.NewScraper(client))
	}

	return registry
}

func waterfallConfig() (waterfall.Config, error) {
	if cfg.Waterfall.ConfigPath == "" {
		return waterfall.DefaultConfig(), nil
	}
	wc, err := waterfall.LoadConfig(cfg.Waterfall.ConfigPath)
	if err != nil {
		return waterfall.Config{}, err
	}
	return *wc, nil
}

func buildVerifier() *verify.Verifier {
	opts := []verify.Option{verify.WithBatchLimit(cfg.Batch.Limit)}
	if cfg.Anthropic.Key != "" {
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)
		opts = append(opts, verify.WithGuesser(aiguess.NewGuesser(client, cfg.Anthropic.Model)))
	}
	return verify.New(domains.NewMXChecker(), opts...)
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (OUTREACH_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}
