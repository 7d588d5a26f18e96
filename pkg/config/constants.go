package config

const (
	EnvPrefix = "SHOPPING"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	RetailerRamiLevy  = "ramilevy"
	RetailerShufersal = "shufersal"
)

const (
	EnvAppEnv           = "SHOPPING_APP_ENV"
	EnvPort             = "SHOPPING_APP_PORT"
	EnvLogLevel         = "SHOPPING_LOG_LEVEL"
	EnvLogFormat        = "SHOPPING_LOG_FORMAT"
	EnvRedisURL         = "SHOPPING_REDIS_URL"
	EnvTrustedProxies   = "SHOPPING_TRUSTED_PROXIES"
	EnvTransportTimeout = "SHOPPING_TRANSPORT_TIMEOUT"
	EnvTransportMaxBody = "SHOPPING_TRANSPORT_MAX_BODY_BYTES"

	EnvRateLimitWindow = "SHOPPING_RATE_LIMIT_WINDOW"
	EnvRateLimitLimit  = "SHOPPING_RATE_LIMIT_LIMIT"

	EnvRamiLevyAPIKey    = "SHOPPING_RAMILEVY_API_KEY"
	EnvRamiLevyEcomToken = "SHOPPING_RAMILEVY_ECOM_TOKEN"
	EnvRamiLevyUserID    = "SHOPPING_RAMILEVY_USER_ID"
	EnvRamiLevyStoreID   = "SHOPPING_RAMILEVY_STORE_ID"
	EnvRamiLevyClub      = "SHOPPING_RAMILEVY_CLUB_MEMBER"

	EnvShufersalSessionCookie = "SHOPPING_SHUFERSAL_SESSION_COOKIE"
	EnvShufersalCSRFToken     = "SHOPPING_SHUFERSAL_CSRF_TOKEN"
)
