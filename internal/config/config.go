package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/muse-lab/muse-server/pkg/database"
)

type Config struct {
	Server  ServerConfig    `mapstructure:"server"`
	DB      database.Config `mapstructure:"database"`
	Redis   RedisConfig     `mapstructure:"redis"`
	JWT     JWTConfig       `mapstructure:"jwt"`
	Log     LogConfig       `mapstructure:"log"`
	Upload  UploadConfig    `mapstructure:"upload"`
	Rate    RateConfig      `mapstructure:"rate_limit"`
	Sentry  SentryConfig    `mapstructure:"sentry"`
	Tracing TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release
}

func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	TTL    int    `mapstructure:"ttl"` // minutes
	Issuer string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	PublicURL string `mapstructure:"public_url"`
}

type RateConfig struct {
	Enabled bool `mapstructure:"enabled"`
	PerMin  int  `mapstructure:"per_min"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// Load reads config.yaml (working dir or ./config) with env overrides,
// e.g. DATABASE_HOST=... overrides database.host.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No file: rely on defaults and env.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "muse")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("redis.addr", "")
	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.ttl", 60*24)
	v.SetDefault("jwt.issuer", "muse-server")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.public_url", "/static")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.per_min", 120)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
}
