package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
	Admin         AdminConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Mail.validate(); err != nil {
		return nil, err
	}
	if err := cfg.OTP.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"MATMASTER_APP_ENV" required:"true"`
	Port         string   `envconfig:"MATMASTER_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"MATMASTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"MATMASTER_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"MATMASTER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"MATMASTER_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MATMASTER_DB_DSN"`
	Driver string `envconfig:"MATMASTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MATMASTER_DB_HOST"`
	LegacyPort     int    `envconfig:"MATMASTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MATMASTER_DB_USER"`
	LegacyPassword string `envconfig:"MATMASTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"MATMASTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"MATMASTER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MATMASTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MATMASTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MATMASTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MATMASTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MATMASTER_REDIS_URL"`
	Address      string        `envconfig:"MATMASTER_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"MATMASTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"MATMASTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MATMASTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MATMASTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MATMASTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MATMASTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MATMASTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MATMASTER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MATMASTER_JWT_ISSUER" default:"matmaster"`
	ExpirationMinutes int    `envconfig:"MATMASTER_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MATMASTER_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MATMASTER_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MATMASTER_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MATMASTER_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MATMASTER_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MATMASTER_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentityLimit int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_LOGIN_IDENTITY_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MATMASTER_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ForgotWindow       time.Duration `envconfig:"MATMASTER_AUTH_RATE_LIMIT_FORGOT_WINDOW" default:"10m"`
	ForgotEmailLimit   int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_FORGOT_EMAIL_LIMIT" default:"10"`
	ForgotIPLimit      int           `envconfig:"MATMASTER_AUTH_RATE_LIMIT_FORGOT_IP_LIMIT" default:"30"`
}

type OTPConfig struct {
	ValidWindow     time.Duration `envconfig:"MATMASTER_OTP_VALID_WINDOW" default:"10m"`
	ResendCooldown  time.Duration `envconfig:"MATMASTER_OTP_RESEND_COOLDOWN" default:"60s"`
	CleanupInterval time.Duration `envconfig:"MATMASTER_OTP_CLEANUP_INTERVAL" default:"60s"`
	CleanupLockTTL  time.Duration `envconfig:"MATMASTER_OTP_CLEANUP_LOCK_TTL" default:"50s"`
}

func (o OTPConfig) validate() error {
	if o.ValidWindow <= 0 {
		return fmt.Errorf("%s must be positive", EnvOTPWindow)
	}
	if o.ResendCooldown <= 0 {
		return fmt.Errorf("%s must be positive", EnvOTPCooldown)
	}
	return nil
}

type MailConfig struct {
	Enabled  bool          `envconfig:"MATMASTER_MAIL_ENABLED" default:"false"`
	Host     string        `envconfig:"MATMASTER_MAIL_SMTP_HOST"`
	Port     int           `envconfig:"MATMASTER_MAIL_SMTP_PORT" default:"587"`
	Username string        `envconfig:"MATMASTER_MAIL_SMTP_USERNAME"`
	Password string        `envconfig:"MATMASTER_MAIL_SMTP_PASSWORD"`
	From     string        `envconfig:"MATMASTER_MAIL_FROM"`
	Timeout  time.Duration `envconfig:"MATMASTER_MAIL_TIMEOUT" default:"10s"`
}

func (m MailConfig) validate() error {
	if !m.Enabled {
		return nil
	}
	missing := []string{}
	if strings.TrimSpace(m.Host) == "" {
		missing = append(missing, EnvMailHost)
	}
	if strings.TrimSpace(m.From) == "" {
		missing = append(missing, EnvMailFrom)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s requires %s", EnvMailEnabled, strings.Join(missing, ", "))
	}
	return nil
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MATMASTER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MATMASTER_AUTO_MIGRATE" default:"false"`
}

type AdminConfig struct {
	FirstName  string `envconfig:"MATMASTER_ADMIN_FIRST_NAME" default:"System"`
	LastName   string `envconfig:"MATMASTER_ADMIN_LAST_NAME" default:"Admin"`
	FatherName string `envconfig:"MATMASTER_ADMIN_FATHER_NAME"`
	DOB        string `envconfig:"MATMASTER_ADMIN_DOB"`
	Email      string `envconfig:"MATMASTER_ADMIN_EMAIL"`
	UserID     string `envconfig:"MATMASTER_ADMIN_USER_ID"`
	Password   string `envconfig:"MATMASTER_ADMIN_PASSWORD"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
