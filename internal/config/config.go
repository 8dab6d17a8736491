package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nuritravel/go-docx-enhancer/internal/section"
)

// Config is the full service configuration, loaded from a YAML file with
// environment overrides (DOCX_ENHANCER_* variables).
type Config struct {
	Server  ServerConfig          `mapstructure:"server"`
	Webhook WebhookConfig         `mapstructure:"webhook"`
	Policy  PolicyConfig          `mapstructure:"policy"`
	Heading section.HeadingConfig `mapstructure:"heading"`
	Debug   bool                  `mapstructure:"debug"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// InternalSecret guards the build endpoint; requests must present it in
	// the X-Internal-Secret header. Empty disables the endpoint.
	InternalSecret string `mapstructure:"internal_secret"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type WebhookConfig struct {
	// URL of the external text-generation webhook.
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PolicyConfig struct {
	// Default selection policy: "index" or "heading".
	Default string `mapstructure:"default"`
}

// Load reads configuration from the given path, or from ./docx-enhancer.yaml
// when the path is empty. A missing file is not an error: defaults plus
// environment overrides apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/docx-enhancer")
		v.SetConfigName("docx-enhancer")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("DOCX_ENHANCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: failed to read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	// Empty defaults so AutomaticEnv sees these keys even without a config
	// file; viper only resolves env values for registered keys.
	v.SetDefault("server.internal_secret", "")
	v.SetDefault("server.max_upload_bytes", int64(10<<20))
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", 2*time.Minute)
	v.SetDefault("policy.default", section.PolicyIndex)

	heading := section.DefaultHeadingConfig()
	v.SetDefault("heading.day_pattern", heading.DayPattern)
	v.SetDefault("heading.excluded_keywords", heading.ExcludedKeywords)
	v.SetDefault("heading.min_paragraph_len", heading.MinParagraphLen)
}

func validate(cfg *Config) error {
	switch cfg.Policy.Default {
	case section.PolicyIndex, section.PolicyHeading:
	default:
		return fmt.Errorf("config: unknown default policy %q", cfg.Policy.Default)
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: server.max_upload_bytes must be positive")
	}
	if cfg.Webhook.Timeout <= 0 {
		return fmt.Errorf("config: webhook.timeout must be positive")
	}
	return nil
}
