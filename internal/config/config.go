package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ierr "github.com/netbill/netbill/internal/errors"
	"github.com/netbill/netbill/internal/types"
	"github.com/spf13/viper"
)

// Configuration is the full application configuration, injected explicitly
// into every component instead of being read from package globals.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Billing    BillingConfig    `mapstructure:"billing"`
	WhatsApp   WhatsAppConfig   `mapstructure:"whatsapp"`
}

// Deployment modes.
const (
	ModeDev  = "dev"
	ModeProd = "prod"
	ModeTest = "test"
)

type DeploymentConfig struct {
	Mode string `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LoggingConfig struct {
	Level          string `mapstructure:"level"`
	FluentdEnabled bool   `mapstructure:"fluentd_enabled"`
	FluentdHost    string `mapstructure:"fluentd_host"`
	FluentdPort    int    `mapstructure:"fluentd_port"`
}

// BillingConfig holds settings that are deployment-level rather than part of
// the admin-editable settings row.
type BillingConfig struct {
	// Timezone is the IANA zone (or known abbreviation) every calendar
	// decision is evaluated in.
	Timezone string `mapstructure:"timezone"`
}

type WhatsAppConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	InternalSecret string        `mapstructure:"internal_secret"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RetryMax       int           `mapstructure:"retry_max"`
}

// NewConfig loads configuration from config.yaml and NETBILL_* environment
// variables, with a .env file applied first when present.
func NewConfig() (*Configuration, error) {
	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("NETBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrValidation)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal configuration").
			Mark(ierr.ErrValidation)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", ModeDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "netbill")
	v.SetDefault("postgres.dbname", "netbill")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("logging.level", "info")
	v.SetDefault("billing.timezone", types.DefaultTimezone)
	v.SetDefault("whatsapp.base_url", "http://localhost:3000/api/whatsapp")
	v.SetDefault("whatsapp.timeout", 30*time.Second)
	v.SetDefault("whatsapp.retry_max", 2)
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Configuration) Validate() error {
	if err := types.ValidateTimezone(c.Billing.Timezone); err != nil {
		return ierr.WithError(err).
			WithHintf("Invalid billing timezone: %s", c.Billing.Timezone).
			Mark(ierr.ErrValidation)
	}
	if c.WhatsApp.Timeout <= 0 {
		return ierr.NewError("whatsapp timeout must be positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DSN builds the Postgres connection string.
func (c PostgresConfig) DSN() string {
	b := strings.Builder{}
	b.WriteString("host=" + c.Host)
	b.WriteString(" user=" + c.User)
	if c.Password != "" {
		b.WriteString(" password=" + c.Password)
	}
	b.WriteString(" dbname=" + c.DBName)
	b.WriteString(" sslmode=" + c.SSLMode)
	if c.Port != 0 {
		b.WriteString(" port=" + strconv.Itoa(c.Port))
	}
	return b.String()
}

// Location returns the configured billing timezone as a location.
func (c *Configuration) Location() *time.Location {
	return types.LoadTimezone(c.Billing.Timezone)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: ModeTest},
		Server:     ServerConfig{Address: ":8080"},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "netbill",
			DBName:  "netbill_test",
			SSLMode: "disable",
		},
		Logging: LoggingConfig{Level: "debug"},
		Billing: BillingConfig{Timezone: types.DefaultTimezone},
		WhatsApp: WhatsAppConfig{
			BaseURL:  "http://localhost:3000/api/whatsapp",
			Timeout:  30 * time.Second,
			RetryMax: 2,
		},
	}
}
