// Package config reads the runtime configuration from defaults, an optional
// config file, a .env file and PAGECRAFT_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/pagecraft/internal/logger"
)

// EnvPrefix is prepended to every environment override, e.g. PAGECRAFT_DB_DRIVER.
const EnvPrefix = "PAGECRAFT"

// AppConfig collects the settings needed to run the server.
type AppConfig struct {
	DevMode         bool          `mapstructure:"dev_mode"`
	ListenAddr      string        `mapstructure:"listen_addr" validate:"required"`
	AdminPrefix     string        `mapstructure:"admin_prefix" validate:"required,startswith=/"`
	SessionSecret   string        `mapstructure:"session_secret" validate:"required"`
	GinMode         string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	DB              DB            `mapstructure:"db"`
	Log             logger.Log    `mapstructure:"log"`
	Content         Content       `mapstructure:"content"`
}

// DB holds the database connection settings.
type DB struct {
	Driver   string `mapstructure:"driver" validate:"oneof=sqlite postgres mysql"`
	Path     string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host     string `mapstructure:"host" validate:"required_unless=Driver sqlite"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_unless=Driver sqlite"`
	Extras   string `mapstructure:"extras"`
}

// Content toggles content rules.
type Content struct {
	// AllowDuplicateURLs disables the check that keeps page URLs unique.
	AllowDuplicateURLs bool `mapstructure:"allow_duplicate_urls"`
}

var validate = validator.New()

// Load reads the configuration and fills in defaults for missing keys.
// path may point to a config file (toml, yaml or json); empty means env only.
func Load(path string) (AppConfig, error) {
	// A missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, errors.Wrap(err, "failed to decode config")
	}

	// The admin area cannot share the site root with the public pages.
	cfg.AdminPrefix = strings.TrimRight(strings.TrimSpace(cfg.AdminPrefix), "/")

	if err := validate.Struct(cfg); err != nil {
		return AppConfig{}, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dev_mode", false)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("admin_prefix", "/-")
	v.SetDefault("session_secret", "pagecraft-dev-secret")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout", 5*time.Second)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "pagecraft.db")
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.extras", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.app_name", "pagecraft")
	v.SetDefault("log.service_name", "pagecraft")
	v.SetDefault("log.report_caller", false)
	v.SetDefault("log.console.enabled", true)
	v.SetDefault("log.console.use_console_writer", false)
	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "logs")
	v.SetDefault("log.file.info", "info.log")
	v.SetDefault("log.file.error", "error.log")
	v.SetDefault("log.file.max_size", 100)
	v.SetDefault("log.file.max_backups", 5)
	v.SetDefault("log.file.max_age", 28)

	v.SetDefault("content.allow_duplicate_urls", false)
}
