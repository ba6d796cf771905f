package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultName            = "seed_bot"
	defaultListen          = "0.0.0.0"
	defaultPort            = 443
	defaultPollTimeout     = 60
	defaultLogDir          = "logs"
	defaultLogLevel        = "debug"
	defaultShutdownTimeout = 5 * time.Second
)

// Config holds all application configuration
type Config struct {
	// Telegram
	Token       string `yaml:"token"`
	Name        string `yaml:"name"`
	Debug       bool   `yaml:"debug"`
	PollTimeout int    `yaml:"poll_timeout"`

	// Webhook mode
	Webhook        bool           `yaml:"webhook"`
	WebhookOptions WebhookOptions `yaml:"webhook_options"`

	// Logging
	LogDir   string `yaml:"log_dir"`
	LogLevel string `yaml:"log_level"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Cloudflare DNS for the public webhook host
	Cloudflare CloudflareConfig `yaml:"cloudflare"`
}

// WebhookOptions is only consulted when Webhook is true
type WebhookOptions struct {
	Listen      string `yaml:"listen"`
	Port        int    `yaml:"port"`
	URLPath     string `yaml:"url_path"` // embed the token so random people cannot post fake updates
	WebhookURL  string `yaml:"webhook_url"`
	Certificate string `yaml:"certificate"`
	Key         string `yaml:"key"`
}

// CloudflareConfig enables DNS provisioning for the webhook host when APIToken is set
type CloudflareConfig struct {
	APIToken string `yaml:"api_token"`
	Zone     string `yaml:"zone"`
	Target   string `yaml:"target"`
	Proxied  bool   `yaml:"proxied"`
}

// Load loads configuration from an optional .env file, an optional YAML
// settings file and environment variables, in increasing precedence.
func Load(settingsFile string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := defaults()

	if settingsFile != "" {
		data, err := os.ReadFile(settingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.WebhookOptions.URLPath == "" {
		cfg.WebhookOptions.URLPath = cfg.Token
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Name:        defaultName,
		PollTimeout: defaultPollTimeout,
		WebhookOptions: WebhookOptions{
			Listen: defaultListen,
			Port:   defaultPort,
		},
		LogDir:          defaultLogDir,
		LogLevel:        defaultLogLevel,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func (c *Config) applyEnv() error {
	c.Token = getEnv("TOKEN", getEnv("TELEGRAM_BOT_TOKEN", c.Token))
	c.Name = getEnv("NAME", c.Name)
	c.LogDir = getEnv("LOG_DIR", c.LogDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	opts := &c.WebhookOptions
	opts.Listen = getEnv("WEBHOOK_LISTEN", opts.Listen)
	opts.URLPath = getEnv("WEBHOOK_URL_PATH", opts.URLPath)
	opts.WebhookURL = getEnv("WEBHOOK_URL", opts.WebhookURL)
	opts.Certificate = getEnv("WEBHOOK_CERT", opts.Certificate)
	opts.Key = getEnv("WEBHOOK_KEY", opts.Key)

	cf := &c.Cloudflare
	cf.APIToken = getEnv("CLOUDFLARE_API_TOKEN", cf.APIToken)
	cf.Zone = getEnv("CLOUDFLARE_ZONE", cf.Zone)
	cf.Target = getEnv("WEBHOOK_DNS_TARGET", cf.Target)

	var err error
	if c.Webhook, err = getBool("WEBHOOK", c.Webhook); err != nil {
		return err
	}
	if c.Debug, err = getBool("DEBUG", c.Debug); err != nil {
		return err
	}
	if cf.Proxied, err = getBool("WEBHOOK_DNS_PROXIED", cf.Proxied); err != nil {
		return err
	}
	if opts.Port, err = getInt("WEBHOOK_PORT", opts.Port); err != nil {
		return err
	}
	if c.PollTimeout, err = getInt("POLL_TIMEOUT", c.PollTimeout); err != nil {
		return err
	}
	if value := os.Getenv("SHUTDOWN_TIMEOUT"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %s", value)
		}
		c.ShutdownTimeout = d
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("TOKEN is required")
	}

	if c.Name == "" {
		return fmt.Errorf("NAME must not be empty")
	}

	if c.PollTimeout < 0 {
		return fmt.Errorf("POLL_TIMEOUT must not be negative")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	if c.Webhook {
		if c.WebhookOptions.WebhookURL == "" {
			return fmt.Errorf("WEBHOOK_URL is required when WEBHOOK is enabled")
		}
		if c.WebhookOptions.Port < 1 || c.WebhookOptions.Port > 65535 {
			return fmt.Errorf("WEBHOOK_PORT must be between 1 and 65535")
		}
		if c.WebhookOptions.Key != "" && c.WebhookOptions.Certificate == "" {
			return fmt.Errorf("WEBHOOK_KEY requires WEBHOOK_CERT")
		}
	}

	if c.UseCloudflare() {
		if c.Cloudflare.Zone == "" || c.Cloudflare.Target == "" {
			return fmt.Errorf("CLOUDFLARE_ZONE and WEBHOOK_DNS_TARGET are required with CLOUDFLARE_API_TOKEN")
		}
	}

	return nil
}

// UseCloudflare returns true if the webhook DNS record should be provisioned
func (c *Config) UseCloudflare() bool {
	return c.Webhook && c.Cloudflare.APIToken != ""
}

// UseTLS returns true if the webhook listener should serve TLS itself
func (c *Config) UseTLS() bool {
	return c.WebhookOptions.Certificate != "" && c.WebhookOptions.Key != ""
}

// ListenAddr returns the host:port the webhook server binds to
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.WebhookOptions.Listen, c.WebhookOptions.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return i, nil
}
