package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string         `mapstructure:"app_env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Portal   PortalConfig   `mapstructure:"portal"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries"`
	Migrate    bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker        string        `mapstructure:"broker"`
	ConsumerGroup string        `mapstructure:"consumer_group"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// StorageConfig points at the S3-compatible bucket holding policy documents.
// An empty Endpoint disables uploads.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PortalConfig is read by the terminal client only.
type PortalConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	SessionFile string        `mapstructure:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// env names kept compatible with the existing .env files
var envBindings = map[string]string{
	"app_env":               "APP_ENV",
	"server.port":           "PORT",
	"db.host":               "DB_HOST",
	"db.port":               "DB_PORT",
	"db.user":               "DB_USER",
	"db.password":           "DB_PASSWORD",
	"db.name":               "DB_NAME",
	"db.sslmode":            "DB_SSLMODE",
	"db.migrate":            "DB_MIGRATE",
	"redis.addr":            "REDIS_ADDR",
	"kafka.broker":          "KAFKA_BROKER",
	"kafka.consumer_group":  "KAFKA_CONSUMER_GROUP",
	"auth.jwt_secret":       "JWT_SECRET",
	"auth.access_token_ttl": "ACCESS_TOKEN_TTL",
	"log.level":             "LOG_LEVEL",
	"storage.endpoint":      "STORAGE_ENDPOINT",
	"storage.access_key":    "STORAGE_ACCESS_KEY",
	"storage.secret_key":    "STORAGE_SECRET_KEY",
	"storage.bucket":        "STORAGE_BUCKET",
	"storage.use_ssl":       "STORAGE_USE_SSL",
	"portal.base_url":       "PORTAL_BASE_URL",
	"portal.session_file":   "PORTAL_SESSION_FILE",
	"portal.timeout":        "PORTAL_TIMEOUT",
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("app_env", "development")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.name", "hr_portal")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 5)
	v.SetDefault("db.migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("kafka.consumer_group", "hr-portal-leave-refund")
	v.SetDefault("kafka.poll_interval", "3s")

	v.SetDefault("auth.access_token_ttl", "8h")
	v.SetDefault("log.level", "debug")
	v.SetDefault("storage.bucket", "hr-policies")

	v.SetDefault("portal.base_url", "http://localhost:3000")
	v.SetDefault("portal.timeout", "15s")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads defaults, then the config file, then the environment, and
// validates what the API and workers need.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient is Load without the server-side checks.
func LoadClient(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: JWT_SECRET must be at least 16 characters")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be positive")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("config: PORT is required")
	}
	if c.Storage.Endpoint != "" && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("config: STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required with STORAGE_ENDPOINT")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
