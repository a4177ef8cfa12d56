package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port           string            `split_words:"true" default:"8010"`
	LogMode        string            `split_words:"true" default:"production"`
	LogLevel       string            `split_words:"true" default:"info"`
	Timezone       string            `split_words:"true" default:"UTC"`
	APIKeys        map[string]string `split_words:"true"`
	CORSOrigins    []string          `split_words:"true" default:"*"`
	RequestTimeout time.Duration     `split_words:"true" default:"30s"`
	RateLimit      int               `split_words:"true" default:"300"`
}

// BackendConfig describes the hosted PostgreSQL backend. URL and AccessKey are
// optional; without them the service serves demo data.
type BackendConfig struct {
	URL             string        `split_words:"true"`
	AccessKey       string        `split_words:"true"`
	MaxOpenConns    int           `split_words:"true" default:"10"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"30m"`
	ProbeTimeout    time.Duration `split_words:"true" default:"5s"`
	AutoMigrate     bool          `split_words:"true" default:"false"`
}

// Missing lists the names of the unset backend settings.
func (b BackendConfig) Missing() []string {
	var missing []string
	if strings.TrimSpace(b.URL) == "" {
		missing = append(missing, "BACKEND_URL")
	}
	if strings.TrimSpace(b.AccessKey) == "" {
		missing = append(missing, "BACKEND_ACCESS_KEY")
	}
	return missing
}

func (b BackendConfig) Configured() bool {
	return len(b.Missing()) == 0
}

type RedisConfig struct {
	Enabled     bool          `split_words:"true" default:"true"`
	Addr        string        `split_words:"true" default:"127.0.0.1:6379"`
	Password    string        `split_words:"true"`
	DB          int           `split_words:"true" default:"0"`
	MaxRetries  int           `split_words:"true" default:"3"`
	DialTimeout time.Duration `split_words:"true" default:"5s"`
	Timeout     time.Duration `split_words:"true" default:"3s"`
	Prefix      string        `split_words:"true" default:"ar_dashboard:"`
}

type S3Config struct {
	Enabled   bool          `split_words:"true" default:"false"`
	Endpoint  string        `split_words:"true" default:"localhost:9000"`
	AccessKey string        `split_words:"true"`
	SecretKey string        `split_words:"true"`
	Bucket    string        `split_words:"true" default:"exports"`
	UseSSL    bool          `split_words:"true" default:"false"`
	Region    string        `split_words:"true" default:"us-east-1"`
	Prefix    string        `split_words:"true"`
	URLExpiry time.Duration `split_words:"true" default:"48h"`
}

type StorageConfig struct {
	Dir          string `split_words:"true" default:"./exports"`
	PublicPrefix string `split_words:"true" default:"/files"`
	ExternalURL  string `split_words:"true"`
}

type ExportConfig struct {
	TTL           time.Duration `split_words:"true" default:"20m"`
	FileRetention time.Duration `split_words:"true" default:"30m"`
	CleanInterval time.Duration `split_words:"true" default:"5m"`
}

type Config struct {
	App     AppConfig     `envconfig:"APP"`
	Backend BackendConfig `envconfig:"BACKEND"`
	Redis   RedisConfig   `envconfig:"REDIS"`
	S3      S3Config      `envconfig:"S3"`
	Storage StorageConfig `envconfig:"STORAGE"`
	Export  ExportConfig  `envconfig:"EXPORT"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// PaaS hosts hand out the listen port as bare PORT
	if _, ok := os.LookupEnv("APP_PORT"); !ok {
		if port, ok := os.LookupEnv("PORT"); ok && port != "" {
			cfg.App.Port = port
		}
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.S3.Enabled && (cfg.S3.AccessKey == "" || cfg.S3.SecretKey == "") {
		return nil, fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENABLED=true")
	}
	return &cfg, nil
}

// Location is the timezone that decides which calendar day is "today".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
