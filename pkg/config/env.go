package config

// EnvPrefix is the envconfig prefix for every setting.
const EnvPrefix = "MATMASTER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "MATMASTER_APP_ENV"
	EnvPort         = "MATMASTER_APP_PORT"
	EnvLogLevel     = "MATMASTER_LOG_LEVEL"
	EnvCORSOrigins  = "MATMASTER_CORS_ALLOWED_ORIGINS"
	EnvDBDSN        = "MATMASTER_DB_DSN"
	EnvDBHost       = "MATMASTER_DB_HOST"
	EnvDBUser       = "MATMASTER_DB_USER"
	EnvDBName       = "MATMASTER_DB_NAME"
	EnvRedisURL     = "MATMASTER_REDIS_URL"
	EnvJWTSecret    = "MATMASTER_JWT_SECRET"
	EnvJWTIssuer    = "MATMASTER_JWT_ISSUER"
	EnvJWTExpMins   = "MATMASTER_JWT_EXPIRATION_MINUTES"
	EnvOTPWindow    = "MATMASTER_OTP_VALID_WINDOW"
	EnvOTPCooldown  = "MATMASTER_OTP_RESEND_COOLDOWN"
	EnvMailEnabled  = "MATMASTER_MAIL_ENABLED"
	EnvMailHost     = "MATMASTER_MAIL_SMTP_HOST"
	EnvMailFrom     = "MATMASTER_MAIL_FROM"
	EnvAdminEmail   = "MATMASTER_ADMIN_EMAIL"
	EnvAutoMigrate  = "MATMASTER_AUTO_MIGRATE"
	EnvServiceKind  = "MATMASTER_SERVICE_KIND"
	EnvAdminPasswd  = "MATMASTER_ADMIN_PASSWORD"
	EnvCleanupEvery = "MATMASTER_OTP_CLEANUP_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
