package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"db"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Mail          MailConfig          `mapstructure:"mail"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Tokens        TokensConfig        `mapstructure:"tokens"`
	Log           LogConfig           `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	BaseURL      string        `mapstructure:"base_url"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig with an empty Broker makes the api dispatch notifications in-process.
type KafkaConfig struct {
	Broker  string `mapstructure:"broker"`
	GroupID string `mapstructure:"group_id"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	NonceSecret    string        `mapstructure:"nonce_secret"`
	NonceTTL       time.Duration `mapstructure:"nonce_ttl"`
}

type MailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type NotificationsConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	OnSubmit          bool   `mapstructure:"on_submit"`
	OnApprove         bool   `mapstructure:"on_approve"`
	OnReject          bool   `mapstructure:"on_reject"`
	HREmail           string `mapstructure:"hr_email"`
	AdminDashboardURL string `mapstructure:"admin_dashboard_url"`
}

type TokensConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	Retention     time.Duration `mapstructure:"retention"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from file and environment. Env wins over file, file over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.name", "leaves")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.broker", "")
	v.SetDefault("kafka.group_id", "go-leaves-notifications")

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.nonce_ttl", "12h")

	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.from", "no-reply@localhost")

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.on_submit", true)
	v.SetDefault("notifications.on_approve", true)
	v.SetDefault("notifications.on_reject", true)
	v.SetDefault("notifications.admin_dashboard_url", "http://localhost:3000/admin/leaves")

	v.SetDefault("tokens.ttl", "168h")
	v.SetDefault("tokens.retention", "720h")
	v.SetDefault("tokens.sweep_interval", "1h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEAVES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if len(c.Auth.NonceSecret) < 16 {
		return fmt.Errorf("config: auth.nonce_secret must be at least 16 characters")
	}
	if c.Auth.NonceSecret == c.Auth.JWTSecret {
		return fmt.Errorf("config: auth.nonce_secret must differ from auth.jwt_secret")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be between 1 and 65535")
	}
	if c.Tokens.TTL <= 0 {
		return fmt.Errorf("config: tokens.ttl must be positive")
	}
	if c.Tokens.Retention <= 0 {
		return fmt.Errorf("config: tokens.retention must be positive")
	}
	return nil
}
