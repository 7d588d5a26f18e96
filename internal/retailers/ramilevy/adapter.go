package ramilevy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

const (
	Name = "RamiLevy"

	cartItemPrefix    = "rl_"
	unavailableSuffix = "_unavailable"
	unavailableNote   = "(not available at this store)"
	currency          = "ILS"
	imageBaseURL      = "https://img.rami-levy.co.il"

	catalogEndpoint = "/api/catalog"
	cartEndpoint    = "/api/v2/cart"
)

// Adapter talks to the Rami Levy online store. It supports every operation.
// Cart mutations are read-modify-write over the full cart and are not atomic:
// a change made elsewhere between the read and the write is overwritten.
type Adapter struct {
	client  transport.Requester
	baseURL string
	storeID string
	club    bool
	headers map[string]string
}

var _ shopping.Adapter = (*Adapter)(nil)

type options struct {
	requester        transport.Requester
	transportOptions []transport.Option
}

// Option customizes adapter construction.
type Option func(*options)

// WithRequester replaces the HTTP transport, mainly for tests.
func WithRequester(r transport.Requester) Option {
	return func(o *options) {
		o.requester = r
	}
}

// WithTransportOptions passes options to the default transport client.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.transportOptions = append(o.transportOptions, opts...)
	}
}

// New validates credentials and binds a transport to the configured base URL.
func New(cfg config.RamiLevyConfig, opts ...Option) (*Adapter, error) {
	required := []struct{ name, value string }{
		{config.EnvRamiLevyAPIKey, cfg.APIKey},
		{config.EnvRamiLevyEcomToken, cfg.EcomToken},
		{config.EnvRamiLevyUserID, cfg.UserID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "missing "+r.name)
		}
	}
	if _, err := strconv.ParseInt(strings.TrimSpace(cfg.UserID), 10, 64); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, config.EnvRamiLevyUserID+" must be numeric")
	}
	storeID := strings.TrimSpace(cfg.StoreID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "missing "+config.EnvRamiLevyStoreID)
	}

	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	client := o.requester
	if client == nil {
		c, err := transport.New(cfg.BaseURL, o.transportOptions...)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConfiguration, err, "invalid base url")
		}
		client = c
	}

	return &Adapter{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		storeID: storeID,
		club:    cfg.ClubMember,
		headers: map[string]string{
			"Authorization": "Bearer " + strings.TrimSpace(cfg.APIKey),
			"Ecomtoken":     strings.TrimSpace(cfg.EcomToken),
			"X-User-Id":     strings.TrimSpace(cfg.UserID),
			"Locale":        "he",
		},
	}, nil
}

func (a *Adapter) Website() shopping.Website {
	return shopping.WebsiteRamiLevy
}

// StoreID is the store that availability is checked against.
func (a *Adapter) StoreID() string {
	return a.storeID
}

func (a *Adapter) request(ctx context.Context, req transport.Request) (any, error) {
	headers := make(map[string]string, len(a.headers)+len(req.Headers))
	for k, v := range a.headers {
		headers[k] = v
	}
	for k, v := range req.Headers {
		headers[k] = v
	}
	req.Headers = headers
	return a.client.Request(ctx, req)
}

func productURL(baseURL, id string) string {
	if baseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/he/online/search?item=%s", baseURL, id)
}

func imageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return imageBaseURL + "/" + strings.TrimLeft(path, "/")
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
