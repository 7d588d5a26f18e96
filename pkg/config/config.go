package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Transport TransportConfig
	RateLimit RateLimitConfig
	Retailers RetailersConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every malformed value at once. Missing retailer credentials are
// not an error here; they only disable the affected retailer.
func (c *Config) Validate() error {
	var err error
	if _, convErr := strconv.Atoi(c.App.Port); convErr != nil {
		err = multierr.Append(err, fmt.Errorf("%s must be numeric", EnvPort))
	}
	if c.Transport.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvTransportTimeout))
	}
	if c.Transport.MaxBodyBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvTransportMaxBody))
	}
	if id := strings.TrimSpace(c.Retailers.RamiLevy.UserID); id != "" {
		if _, convErr := strconv.ParseInt(id, 10, 64); convErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s must be numeric", EnvRamiLevyUserID))
		}
	}
	if strings.TrimSpace(c.Retailers.RamiLevy.StoreID) == "" {
		err = multierr.Append(err, fmt.Errorf("%s must not be empty", EnvRamiLevyStoreID))
	}
	for _, entry := range c.App.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, _, cidrErr := net.ParseCIDR(entry); cidrErr != nil && net.ParseIP(entry) == nil {
			err = multierr.Append(err, fmt.Errorf("%s: invalid entry %q", EnvTrustedProxies, entry))
		}
	}
	return err
}

type AppConfig struct {
	Env          string `envconfig:"SHOPPING_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPPING_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPPING_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SHOPPING_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SHOPPING_LOG_WARN_STACK" default:"false"`

	// CORSOrigins extends the built-in localhost and extension origins.
	CORSOrigins     []string      `envconfig:"SHOPPING_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"SHOPPING_SHUTDOWN_TIMEOUT" default:"15s"`
	// TrustedProxies lists peers (IPs or CIDRs) whose forwarding headers are honored.
	TrustedProxies  []string      `envconfig:"SHOPPING_TRUSTED_PROXIES"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RedisConfig is optional: with neither URL nor address set, rate limiting and
// idempotency are disabled.
type RedisConfig struct {
	URL          string        `envconfig:"SHOPPING_REDIS_URL"`
	Address      string        `envconfig:"SHOPPING_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPPING_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPPING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPPING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPPING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPPING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPPING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPPING_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type TransportConfig struct {
	Timeout              time.Duration `envconfig:"SHOPPING_TRANSPORT_TIMEOUT" default:"15s"`
	MaxBodyBytes         int64         `envconfig:"SHOPPING_TRANSPORT_MAX_BODY_BYTES" default:"5242880"`
	UserAgent            string        `envconfig:"SHOPPING_TRANSPORT_USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"`
	AllowPrivateNetworks bool          `envconfig:"SHOPPING_TRANSPORT_ALLOW_PRIVATE_NETWORKS" default:"false"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"SHOPPING_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"SHOPPING_RATE_LIMIT_LIMIT" default:"60"`
}

type RetailersConfig struct {
	RamiLevy  RamiLevyConfig
	Shufersal ShufersalConfig
}

type RamiLevyConfig struct {
	BaseURL   string `envconfig:"SHOPPING_RAMILEVY_BASE_URL" default:"https://www.rami-levy.co.il"`
	APIKey    string `envconfig:"SHOPPING_RAMILEVY_API_KEY"`
	EcomToken string `envconfig:"SHOPPING_RAMILEVY_ECOM_TOKEN"`
	UserID    string `envconfig:"SHOPPING_RAMILEVY_USER_ID"`
	StoreID   string `envconfig:"SHOPPING_RAMILEVY_STORE_ID" default:"331"`

	// ClubMember marks the account as a loyalty member on cart writes.
	ClubMember bool `envconfig:"SHOPPING_RAMILEVY_CLUB_MEMBER" default:"false"`
}

type ShufersalConfig struct {
	BaseURL       string `envconfig:"SHOPPING_SHUFERSAL_BASE_URL" default:"https://www.shufersal.co.il"`
	SessionCookie string `envconfig:"SHOPPING_SHUFERSAL_SESSION_COOKIE"`
	CSRFToken     string `envconfig:"SHOPPING_SHUFERSAL_CSRF_TOKEN"`
}

// Missing returns the names of the credential variables a retailer needs but lacks.
// Unknown retailer keys report nothing.
func (r RetailersConfig) Missing(retailer string) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	switch strings.ToLower(strings.TrimSpace(retailer)) {
	case RetailerRamiLevy:
		check(EnvRamiLevyAPIKey, r.RamiLevy.APIKey)
		check(EnvRamiLevyEcomToken, r.RamiLevy.EcomToken)
		check(EnvRamiLevyUserID, r.RamiLevy.UserID)
	case RetailerShufersal:
		check(EnvShufersalSessionCookie, r.Shufersal.SessionCookie)
		check(EnvShufersalCSRFToken, r.Shufersal.CSRFToken)
	}
	return missing
}
