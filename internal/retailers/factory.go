package retailers

import (
	"fmt"
	"sync"

	"github.com/asif-amar/shopping-mcp/internal/retailers/ramilevy"
	"github.com/asif-amar/shopping-mcp/internal/retailers/shufersal"
	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

// Constructor builds an adapter from retailer configuration.
type Constructor func(cfg config.RetailersConfig, opts []transport.Option) (shopping.Adapter, error)

type registration struct {
	name      string
	construct Constructor
}

// ConfigReport lists the credential variables a website still needs.
type ConfigReport struct {
	Website shopping.Website `json:"website"`
	Valid   bool             `json:"valid"`
	Missing []string         `json:"missing"`
}

// Factory resolves websites to adapters. Adapters are built on first use and
// cached until ClearCache; there is no eviction.
type Factory struct {
	cfg           config.RetailersConfig
	transportOpts []transport.Option
	registrations map[shopping.Website]registration

	mu       sync.Mutex
	adapters map[shopping.Website]shopping.Adapter
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithTransportOptions applies opts to every adapter's HTTP client.
func WithTransportOptions(opts ...transport.Option) FactoryOption {
	return func(f *Factory) {
		f.transportOpts = append(f.transportOpts, opts...)
	}
}

// WithConstructor overrides how one website's adapter is built.
func WithConstructor(website shopping.Website, name string, construct Constructor) FactoryOption {
	return func(f *Factory) {
		f.registrations[website] = registration{name: name, construct: construct}
	}
}

func NewFactory(cfg config.RetailersConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg: cfg,
		registrations: map[shopping.Website]registration{
			shopping.WebsiteRamiLevy:  {name: ramilevy.Name, construct: newRamiLevy},
			shopping.WebsiteShufersal: {name: shufersal.Name, construct: newShufersal},
		},
		adapters: make(map[shopping.Website]shopping.Adapter),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func newRamiLevy(cfg config.RetailersConfig, opts []transport.Option) (shopping.Adapter, error) {
	return ramilevy.New(cfg.RamiLevy, ramilevy.WithTransportOptions(opts...))
}

func newShufersal(cfg config.RetailersConfig, opts []transport.Option) (shopping.Adapter, error) {
	return shufersal.New(cfg.Shufersal, shufersal.WithTransportOptions(opts...))
}

// GetAdapter returns the cached adapter for website, building it on first use.
// Construction failures are not cached.
func (f *Factory) GetAdapter(website string) (shopping.Adapter, error) {
	w, ok := shopping.ParseWebsite(website)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported website: %s", website))
	}
	reg, ok := f.registrations[w]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported website: %s", website))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if adapter, ok := f.adapters[w]; ok {
		return adapter, nil
	}
	adapter, err := reg.construct(f.cfg, f.transportOpts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, fmt.Sprintf("failed to create %s adapter", reg.name))
	}
	f.adapters[w] = adapter
	return adapter, nil
}

func (f *Factory) IsWebsiteSupported(website string) bool {
	w, ok := shopping.ParseWebsite(website)
	if !ok {
		return false
	}
	_, ok = f.registrations[w]
	return ok
}

// SupportedWebsites lists websites in a stable order.
func (f *Factory) SupportedWebsites() []shopping.Website {
	out := make([]shopping.Website, 0, len(f.registrations))
	for _, w := range shopping.Websites() {
		if _, ok := f.registrations[w]; ok {
			out = append(out, w)
		}
	}
	return out
}

// ValidateWebsiteConfig reports missing credentials without building the adapter.
func (f *Factory) ValidateWebsiteConfig(website string) (ConfigReport, error) {
	w, ok := shopping.ParseWebsite(website)
	if !ok || !f.IsWebsiteSupported(website) {
		return ConfigReport{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported website: %s", website))
	}
	missing := f.cfg.Missing(string(w))
	if missing == nil {
		missing = []string{}
	}
	return ConfigReport{Website: w, Valid: len(missing) == 0, Missing: missing}, nil
}

// ClearCache drops every cached adapter.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adapters = make(map[shopping.Website]shopping.Adapter)
}
