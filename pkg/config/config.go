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
	Mail         MailConfig
	Workflow     WorkflowConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THIRDLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"THIRDLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"THIRDLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THIRDLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"THIRDLINE_DB_DSN"`
	Driver string `envconfig:"THIRDLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"THIRDLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"THIRDLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"THIRDLINE_DB_USER"`
	LegacyPassword string `envconfig:"THIRDLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"THIRDLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"THIRDLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"THIRDLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"THIRDLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"THIRDLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"THIRDLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"THIRDLINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"THIRDLINE_REDIS_ADDR"`
	Password     string        `envconfig:"THIRDLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"THIRDLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THIRDLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THIRDLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THIRDLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THIRDLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THIRDLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MailConfig struct {
	SendgridAPIKey string        `envconfig:"THIRDLINE_SENDGRID_API_KEY"`
	DefaultFrom    string        `envconfig:"THIRDLINE_MAIL_FROM_EMAIL" default:"no-reply@thirdline.io"`
	DefaultName    string        `envconfig:"THIRDLINE_MAIL_FROM_NAME" default:"Thirdline Compliance"`
	SendTimeout    time.Duration `envconfig:"THIRDLINE_MAIL_SEND_TIMEOUT" default:"10s"`
}

// Enabled reports whether outbound mail is configured at all; without an API
// key the mail layer degrades to the noop sender.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.SendgridAPIKey) != ""
}

type WorkflowConfig struct {
	LockTTL          time.Duration `envconfig:"THIRDLINE_WORKFLOW_LOCK_TTL" default:"30s"`
	BaselineLanguage string        `envconfig:"THIRDLINE_WORKFLOW_BASELINE_LANGUAGE" default:"en"`
	InvitationLink   string        `envconfig:"THIRDLINE_WORKFLOW_INVITATION_LINK" default:"https://portal.thirdline.io/questionnaire"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"THIRDLINE_AUTO_MIGRATE" default:"false"`
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
		return fmt.Errorf("database config incomplete: set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	dsn := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:     db.LegacyName,
		RawQuery: fmt.Sprintf("sslmode=%s", db.LegacySSLMode),
	}
	db.DSN = dsn.String()
	return nil
}
