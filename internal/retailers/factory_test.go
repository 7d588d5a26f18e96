package retailers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asif-amar/shopping-mcp/internal/shopping"
	"github.com/asif-amar/shopping-mcp/pkg/config"
	pkgerrors "github.com/asif-amar/shopping-mcp/pkg/errors"
	"github.com/asif-amar/shopping-mcp/pkg/transport"
)

func fullConfig() config.RetailersConfig {
	return config.RetailersConfig{
		RamiLevy: config.RamiLevyConfig{
			BaseURL:   "https://www.rami-levy.co.il",
			APIKey:    "key",
			EcomToken: "ecom",
			UserID:    "42",
			StoreID:   "331",
		},
		Shufersal: config.ShufersalConfig{
			BaseURL:       "https://www.shufersal.co.il",
			SessionCookie: "JSESSIONID=abc",
			CSRFToken:     "csrf",
		},
	}
}

func TestGetAdapterCachesInstances(t *testing.T) {
	f := NewFactory(fullConfig())

	first, err := f.GetAdapter("ramilevy")
	require.NoError(t, err)
	second, err := f.GetAdapter(" RAMILEVY ")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, shopping.WebsiteRamiLevy, first.Website())

	shuf, err := f.GetAdapter("shufersal")
	require.NoError(t, err)
	assert.Equal(t, shopping.WebsiteShufersal, shuf.Website())

	f.ClearCache()
	third, err := f.GetAdapter("ramilevy")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestGetAdapterWrapsConstructionFailure(t *testing.T) {
	cfg := fullConfig()
	cfg.RamiLevy.APIKey = ""
	f := NewFactory(cfg)

	_, err := f.GetAdapter("ramilevy")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConfiguration, pkgerrors.CodeOf(err))
	res := shopping.Fail[bool](shopping.WebsiteRamiLevy, err)
	assert.Equal(t, "failed to create RamiLevy adapter: missing SHOPPING_RAMILEVY_API_KEY", res.Error)
}

func TestGetAdapterUnsupportedWebsite(t *testing.T) {
	f := NewFactory(fullConfig())

	_, err := f.GetAdapter("amazon")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.False(t, f.IsWebsiteSupported("amazon"))
	assert.True(t, f.IsWebsiteSupported("Shufersal"))
}

func TestGetAdapterConstructsOnceUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	f := NewFactory(fullConfig(), WithConstructor(shopping.WebsiteRamiLevy, "RamiLevy", func(cfg config.RetailersConfig, _ []transport.Option) (shopping.Adapter, error) {
		builds.Add(1)
		return fakeAdapter{}, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.GetAdapter("ramilevy")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
}

func TestSupportedWebsitesStableOrder(t *testing.T) {
	f := NewFactory(fullConfig())
	assert.Equal(t, []shopping.Website{shopping.WebsiteRamiLevy, shopping.WebsiteShufersal}, f.SupportedWebsites())
}

func TestValidateWebsiteConfig(t *testing.T) {
	cfg := fullConfig()
	cfg.Shufersal.CSRFToken = ""
	f := NewFactory(cfg)

	report, err := f.ValidateWebsiteConfig("shufersal")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Equal(t, []string{config.EnvShufersalCSRFToken}, report.Missing)

	report, err = f.ValidateWebsiteConfig("ramilevy")
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Missing)

	_, err = f.ValidateWebsiteConfig("amazon")
	assert.Error(t, err)
}

type fakeAdapter struct{}

func (fakeAdapter) Website() shopping.Website { return shopping.WebsiteRamiLevy }

func (fakeAdapter) SearchProducts(context.Context, shopping.SearchOptions) shopping.Result[shopping.SearchResult] {
	return shopping.Ok(shopping.WebsiteRamiLevy, shopping.SearchResult{})
}

func (fakeAdapter) AddToCart(context.Context, string, int, string) shopping.Result[shopping.AddToCartOutcome] {
	return shopping.Ok(shopping.WebsiteRamiLevy, shopping.AddToCartOutcome{})
}

func (fakeAdapter) RemoveFromCart(context.Context, string) shopping.Result[bool] {
	return shopping.Ok(shopping.WebsiteRamiLevy, true)
}

func (fakeAdapter) UpdateCartQuantity(context.Context, string, int) shopping.Result[shopping.CartItem] {
	return shopping.Ok(shopping.WebsiteRamiLevy, shopping.CartItem{})
}

func (fakeAdapter) GetCartContents(context.Context) shopping.Result[shopping.Cart] {
	return shopping.Ok(shopping.WebsiteRamiLevy, shopping.Cart{})
}
