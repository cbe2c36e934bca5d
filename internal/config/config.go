package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		BotToken         string `yaml:"bot_token"`
		WebhookPublicURL string `yaml:"webhook_public_url"`
	} `yaml:"telegram"`
	Analysis struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"analysis"`
	DataSource struct {
		Provider     string `yaml:"provider"`
		AlpacaKey    string `yaml:"alpaca_key"`
		AlpacaSecret string `yaml:"alpaca_secret"`
	} `yaml:"data_source"`
	Chart struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		TmpDir string `yaml:"tmp_dir"`
	} `yaml:"chart"`
	Port   string `yaml:"port"`
	DBPath string `yaml:"db_path"`
	Proxy  string `yaml:"proxy"`
}

// Load reads an optional .env file and an optional YAML file, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"WEBHOOK_PUBLIC_URL", &cfg.Telegram.WebhookPublicURL},
		{"OPENAI_API_KEY", &cfg.Analysis.APIKey},
		{"OPENAI_BASE_URL", &cfg.Analysis.BaseURL},
		{"ANALYSIS_MODEL", &cfg.Analysis.Model},
		{"DATA_SOURCE", &cfg.DataSource.Provider},
		{"ALPACA_API_KEY", &cfg.DataSource.AlpacaKey},
		{"ALPACA_SECRET_KEY", &cfg.DataSource.AlpacaSecret},
		{"CHART_TMP_DIR", &cfg.Chart.TmpDir},
		{"PORT", &cfg.Port},
		{"DB_PATH", &cfg.DBPath},
		{"HTTPS_PROXY", &cfg.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("ANALYSIS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ANALYSIS_TIMEOUT: %w", err)
		}
		cfg.Analysis.Timeout = d
	}
	if v := os.Getenv("CHART_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Chart.Width = n
		}
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "9095"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "/app/data/chat.db"
	}
	if cfg.Analysis.Model == "" {
		cfg.Analysis.Model = "gpt-4o"
	}
	if cfg.Analysis.Timeout == 0 {
		cfg.Analysis.Timeout = 120 * time.Second
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	cfg.DataSource.Provider = strings.ToLower(cfg.DataSource.Provider)
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1200
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 700
	}
	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("missing env TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.WebhookPublicURL == "" {
		return fmt.Errorf("missing env WEBHOOK_PUBLIC_URL")
	}
	// a local OpenAI-compatible server (e.g. Ollama) needs no key
	if c.Analysis.APIKey == "" && c.Analysis.BaseURL == "" {
		return fmt.Errorf("missing env OPENAI_API_KEY")
	}
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaKey == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source alpaca requires ALPACA_API_KEY and ALPACA_SECRET_KEY")
		}
	default:
		return fmt.Errorf("unknown data source %q", c.DataSource.Provider)
	}
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("analysis.timeout must be positive")
	}
	return nil
}
