package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ImpulseScan/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level   string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format  string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output  string `yaml:"output" default:"stdout"`
		Collect struct {
			Enabled   bool          `yaml:"enabled"`
			Topic     string        `yaml:"topic" default:"impulsescan.logs"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100" validate:"gte=1"`
		} `yaml:"collect"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Exchange struct {
		BaseURL  string        `yaml:"base_url" default:"https://www.okx.com" validate:"url"`
		InstType string        `yaml:"inst_type" default:"SWAP" validate:"required"`
		Timeout  time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
	} `yaml:"exchange"`
	Scan struct {
		Bar       string        `yaml:"bar" default:"30m" validate:"required"`
		TopN      int           `yaml:"top_n" default:"300" validate:"gte=0"`
		Threshold float64       `yaml:"threshold" default:"6.0" validate:"gt=0"`
		Delay     time.Duration `yaml:"delay" default:"200ms" validate:"gte=0"`
		QuoteCcy  string        `yaml:"quote_ccy" default:"USDT" validate:"required,uppercase"`
		Watchlist []string      `yaml:"watchlist"`
		LockTTL   time.Duration `yaml:"lock_ttl" default:"30m" validate:"gt=0"`
	} `yaml:"scan"`
	Notify struct {
		Channels []string `yaml:"channels" validate:"dive,oneof=log email queue kafka websocket"`
		Email    struct {
			Host     string        `yaml:"host" default:"smtp.gmail.com"`
			Port     int           `yaml:"port" default:"587"`
			Username string        `yaml:"username"`
			Password string        `yaml:"password"`
			From     string        `yaml:"from" validate:"omitempty,email"`
			To       []string      `yaml:"to" validate:"dive,email"`
			Timeout  time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
		} `yaml:"email"`
		Kafka struct {
			Topic string `yaml:"topic" default:"impulsescan.alerts"`
		} `yaml:"kafka"`
		Queue struct {
			Prefix     string        `yaml:"prefix" default:"impulsescan:queue"`
			Workers    int           `yaml:"workers" default:"1" validate:"gte=1"`
			RetryLimit int           `yaml:"retry_limit" validate:"gte=0"`
			RetryDelay time.Duration `yaml:"retry_delay" default:"10s"`
		} `yaml:"queue"`
	} `yaml:"notify"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
}

var validate = validator.New()

// Default returns a configuration built only from struct defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load reads and parses a YAML configuration file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadWithEnv loads a .env file if present, then the YAML config, then applies
// environment overrides before defaults and validation.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, fmt.Errorf("env override: %w", err)
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// read starts from the struct defaults so that explicit zero values in the
// file or environment survive.
func read(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if path == "" {
		return &c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

func (c *Config) finish() error {
	if len(c.Scan.Watchlist) == 0 {
		c.Scan.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	if len(c.Notify.Channels) == 0 {
		c.Notify.Channels = []string{"log"}
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("OKX_BASE_URL"); v != "" {
		c.Exchange.BaseURL = v
	}
	if v := os.Getenv("SCAN_BAR"); v != "" {
		c.Scan.Bar = v
	}
	if v := os.Getenv("TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOP_N: %w", err)
		}
		c.Scan.TopN = n
	}
	if v := os.Getenv("IMPULSE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("IMPULSE_THRESHOLD: %w", err)
		}
		c.Scan.Threshold = f
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Scan.Watchlist = splitList(v)
	}
	if v := os.Getenv("NOTIFY_CHANNELS"); v != "" {
		c.Notify.Channels = splitList(v)
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.Notify.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Notify.Email.Password = v
	}
	if v := os.Getenv("ALERT_EMAIL_TO"); v != "" {
		c.Notify.Email.To = splitList(v)
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasChannel reports whether the notification channel is enabled.
func (c *Config) HasChannel(name string) bool {
	for _, ch := range c.Notify.Channels {
		if ch == name {
			return true
		}
	}
	return false
}

// Validate checks struct tags plus the rules that span several sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s failed on '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	if !util.IsValidBar(c.Scan.Bar) {
		return fmt.Errorf("scan.bar %q is not a supported bar", c.Scan.Bar)
	}
	if c.HasChannel("email") || c.HasChannel("queue") {
		if c.Notify.Email.From == "" || len(c.Notify.Email.To) == 0 {
			return fmt.Errorf("notify.email.from and notify.email.to are required for email delivery")
		}
	}
	if c.HasChannel("queue") && !c.Redis.Enabled {
		return fmt.Errorf("notify channel 'queue' requires redis.enabled")
	}
	if c.HasChannel("kafka") && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("notify channel 'kafka' requires kafka.brokers")
	}
	if c.Log.Collect.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("log.collect requires kafka.brokers")
	}
	return nil
}
