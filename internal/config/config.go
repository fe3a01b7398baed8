package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PORTAL"

type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level
	LogFormat   string

	Database DatabaseConfig
	RedisURL string

	Auth    AuthConfig
	Casdoor CasdoorConfig
	Kafka   KafkaConfig
	Storage StorageConfig
	LLM     LLMConfig

	CORSOrigins []string
	University  UniversityConfig
}

type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// CasdoorConfig is optional; an empty Endpoint disables the Casdoor verifier.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != "" && c.Cert != ""
}

type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
}

type StorageConfig struct {
	Driver       string // local or b2
	UploadDir    string
	B2AccountID  string
	B2AppKey     string
	B2BucketName string
}

type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

func (c LLMConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || c.BaseURL != "")
}

type UniversityConfig struct {
	Name        string
	Established int
	Location    string
	Description string
}

// SetDefaults registers every key with its default so AutomaticEnv can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")

	v.SetDefault("db-driver", "postgres")
	v.SetDefault("database-url", "host=localhost user=postgres password=postgres dbname=portal port=5432 sslmode=disable")
	v.SetDefault("db-max-open-conns", 25)
	v.SetDefault("db-max-idle-conns", 5)
	v.SetDefault("db-conn-max-lifetime", "30m")
	v.SetDefault("redis-url", "")

	v.SetDefault("jwt-secret", "change-me-in-production")
	v.SetDefault("jwt-ttl", "24h")
	v.SetDefault("jwt-issuer", "campus-portal")

	v.SetDefault("casdoor-endpoint", "")
	v.SetDefault("casdoor-client-id", "")
	v.SetDefault("casdoor-client-secret", "")
	v.SetDefault("casdoor-cert", "")
	v.SetDefault("casdoor-organization", "")
	v.SetDefault("casdoor-application", "")

	v.SetDefault("kafka-brokers", "")
	v.SetDefault("kafka-topic-prefix", "portal")

	v.SetDefault("storage-driver", "local")
	v.SetDefault("upload-dir", "uploads")
	v.SetDefault("b2-account-id", "")
	v.SetDefault("b2-app-key", "")
	v.SetDefault("b2-bucket", "")

	v.SetDefault("llm-url", "")
	v.SetDefault("llm-key", "")
	v.SetDefault("llm-model", "")

	v.SetDefault("cors-origins", "*")

	v.SetDefault("university-name", "Campus University")
	v.SetDefault("university-established", 2005)
	v.SetDefault("university-location", "")
	v.SetDefault("university-description", "A premier institution committed to academic excellence, innovation, and holistic development.")
}

// NewViper loads .env, then binds PORTAL_* variables and an optional portal.yaml.
func NewViper() *viper.Viper {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("portal")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/portal")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	}

	return v
}

// LoadConfig reads configuration from the environment with defaults.
func LoadConfig() (*Config, error) {
	return FromViper(NewViper())
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("environment"),
		Port:        v.GetString("port"),
		LogLevel:    ParseLogLevel(v.GetString("log-level")),
		LogFormat:   strings.ToLower(v.GetString("log-format")),
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("db-driver")),
			URL:             v.GetString("database-url"),
			MaxOpenConns:    v.GetInt("db-max-open-conns"),
			MaxIdleConns:    v.GetInt("db-max-idle-conns"),
			ConnMaxLifetime: v.GetDuration("db-conn-max-lifetime"),
		},
		RedisURL: v.GetString("redis-url"),
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt-secret"),
			TokenTTL:  v.GetDuration("jwt-ttl"),
			Issuer:    v.GetString("jwt-issuer"),
		},
		Casdoor: CasdoorConfig{
			Endpoint:     v.GetString("casdoor-endpoint"),
			ClientID:     v.GetString("casdoor-client-id"),
			ClientSecret: v.GetString("casdoor-client-secret"),
			Cert:         v.GetString("casdoor-cert"),
			Organization: v.GetString("casdoor-organization"),
			Application:  v.GetString("casdoor-application"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(v.GetString("kafka-brokers")),
			TopicPrefix: v.GetString("kafka-topic-prefix"),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(v.GetString("storage-driver")),
			UploadDir:    v.GetString("upload-dir"),
			B2AccountID:  v.GetString("b2-account-id"),
			B2AppKey:     v.GetString("b2-app-key"),
			B2BucketName: v.GetString("b2-bucket"),
		},
		LLM: LLMConfig{
			BaseURL: v.GetString("llm-url"),
			APIKey:  v.GetString("llm-key"),
			Model:   v.GetString("llm-model"),
		},
		CORSOrigins: splitList(v.GetString("cors-origins")),
		University: UniversityConfig{
			Name:        v.GetString("university-name"),
			Established: v.GetInt("university-established"),
			Location:    v.GetString("university-location"),
			Description: v.GetString("university-description"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "b2":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.Environment == "production" && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("jwt ttl must be positive")
	}
	return nil
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
