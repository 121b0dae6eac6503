package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Membership   MembershipConfig
	Points       PointsConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Membership.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Points.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FRESHMART_APP_ENV" required:"true"`
	Port         string `envconfig:"FRESHMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FRESHMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FRESHMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FRESHMART_DB_DSN"`
	Driver string `envconfig:"FRESHMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FRESHMART_DB_HOST"`
	LegacyPort     int    `envconfig:"FRESHMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FRESHMART_DB_USER"`
	LegacyPassword string `envconfig:"FRESHMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"FRESHMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"FRESHMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FRESHMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FRESHMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FRESHMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FRESHMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FRESHMART_REDIS_ADDR"`
	Password     string        `envconfig:"FRESHMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FRESHMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FRESHMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FRESHMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FRESHMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FRESHMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FRESHMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig only verifies tokens minted by the external identity provider.
type JWTConfig struct {
	Secret string `envconfig:"FRESHMART_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"FRESHMART_JWT_ISSUER" required:"true"`
}

// MembershipConfig carries the canonical tier thresholds. The legacy system
// used a different pair per screen; these are the single source of truth now.
type MembershipConfig struct {
	LoyalThreshold  int           `envconfig:"FRESHMART_MEMBERSHIP_LOYAL_THRESHOLD" default:"5"`
	ActiveThreshold int           `envconfig:"FRESHMART_MEMBERSHIP_ACTIVE_THRESHOLD" default:"2"`
	RecentWindow    time.Duration `envconfig:"FRESHMART_MEMBERSHIP_RECENT_WINDOW" default:"168h"`
	InactiveWindow  time.Duration `envconfig:"FRESHMART_MEMBERSHIP_INACTIVE_WINDOW" default:"720h"`
	NewMemberWindow time.Duration `envconfig:"FRESHMART_MEMBERSHIP_NEW_WINDOW" default:"168h"`
}

func (m MembershipConfig) validate() error {
	if m.LoyalThreshold <= 0 || m.ActiveThreshold <= 0 {
		return fmt.Errorf("membership thresholds must be positive")
	}
	if m.ActiveThreshold > m.LoyalThreshold {
		return fmt.Errorf("active threshold (%d) cannot exceed loyal threshold (%d)", m.ActiveThreshold, m.LoyalThreshold)
	}
	return nil
}

// PointsConfig captures the point economics: one point per AccrualDivisor
// rupiah spent, redeemed at RedeemRate rupiah per point.
type PointsConfig struct {
	AccrualDivisor int `envconfig:"FRESHMART_POINTS_ACCRUAL_DIVISOR" default:"10000"`
	RedeemRate     int `envconfig:"FRESHMART_POINTS_REDEEM_RATE" default:"100"`
	MinRedeem      int `envconfig:"FRESHMART_POINTS_MIN_REDEEM" default:"10"`
}

func (p PointsConfig) validate() error {
	if p.AccrualDivisor <= 0 {
		return fmt.Errorf("points accrual divisor must be positive")
	}
	if p.RedeemRate <= 0 {
		return fmt.Errorf("points redeem rate must be positive")
	}
	if p.MinRedeem <= 0 {
		return fmt.Errorf("points minimum redemption must be positive")
	}
	return nil
}

type RateLimitConfig struct {
	RedeemWindow time.Duration `envconfig:"FRESHMART_RATE_LIMIT_REDEEM_WINDOW" default:"1m"`
	RedeemLimit  int           `envconfig:"FRESHMART_RATE_LIMIT_REDEEM_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FRESHMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FRESHMART_AUTO_MIGRATE" default:"false"`
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
