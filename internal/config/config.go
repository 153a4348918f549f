package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "ARTICLE_ENHANCER_CONFIG"
	storeURLEnv    = "ARTICLE_STORE_URL"
	llmEndpointEnv = "LLM_ENDPOINT"
	llmAPIKeyEnv   = "LLM_API_KEY"
	llmModelEnv    = "LLM_MODEL"
	intervalEnv    = "ENHANCER_INTERVAL"
	journalPathEnv = "ENHANCER_JOURNAL_PATH"
)

// Duration reads "2m"-style duration strings from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to the stdlib representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds high-level settings required across the application.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Search    SearchConfig    `yaml:"search"`
	LLM       LLMConfig       `yaml:"llm"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Retry     RetryConfig     `yaml:"retry"`
	Journal   JournalConfig   `yaml:"journal"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StoreConfig describes the content store API.
type StoreConfig struct {
	BaseURL string `yaml:"baseUrl"`
	// PublishDomain is the site the store serves; it is excluded from
	// reference discovery and used to mint synthetic source URLs.
	PublishDomain string `yaml:"publishDomain"`
}

// SearchConfig describes the reference discovery provider.
type SearchConfig struct {
	Endpoint        string   `yaml:"endpoint"`
	ExcludedDomains []string `yaml:"excludedDomains"`
	ScrapeTimeout   Duration `yaml:"scrapeTimeout"`
}

// LLMConfig defines how to contact the generation service.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// APIKey may be a placeholder; local services such as LM Studio
	// accept any non-empty bearer token.
	APIKey string `yaml:"apiKey"`
}

// SchedulerConfig defines the tick period.
type SchedulerConfig struct {
	Interval Duration `yaml:"interval"`
}

// RetryConfig bounds repeated attempts against the same candidate. Only
// consulted when a journal is configured.
type RetryConfig struct {
	MaxAttempts int      `yaml:"maxAttempts"`
	Backoff     Duration `yaml:"backoff"`
}

// JournalConfig locates the local attempt journal. Empty path disables it.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(storeURLEnv); v != "" {
		c.Store.BaseURL = v
	}

	if v := os.Getenv(llmEndpointEnv); v != "" {
		c.LLM.Endpoint = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(intervalEnv); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			log.Printf("config: invalid %s=%q: %v (keeping %s)", intervalEnv, v, err, c.Scheduler.Interval.Std())
		} else if d <= 0 {
			log.Printf("config: non-positive %s=%q (keeping %s)", intervalEnv, v, c.Scheduler.Interval.Std())
		} else {
			c.Scheduler.Interval = Duration(d)
		}
	}

	if v := os.Getenv(journalPathEnv); v != "" {
		c.Journal.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Store.BaseURL != "" {
		base.Store.BaseURL = override.Store.BaseURL
	}
	if override.Store.PublishDomain != "" {
		base.Store.PublishDomain = override.Store.PublishDomain
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if len(override.Search.ExcludedDomains) > 0 {
		base.Search.ExcludedDomains = override.Search.ExcludedDomains
	}
	if override.Search.ScrapeTimeout > 0 {
		base.Search.ScrapeTimeout = override.Search.ScrapeTimeout
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Retry.MaxAttempts > 0 {
		base.Retry.MaxAttempts = override.Retry.MaxAttempts
	}
	if override.Retry.Backoff > 0 {
		base.Retry.Backoff = override.Retry.Backoff
	}

	if override.Journal.Path != "" {
		base.Journal.Path = override.Journal.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			BaseURL:       "http://127.0.0.1:8002/api",
			PublishDomain: "beyondchats.com",
		},
		Search: SearchConfig{
			Endpoint:        "https://html.duckduckgo.com/html/",
			ExcludedDomains: []string{"duckduckgo.com", "google.com"},
			ScrapeTimeout:   Duration(10 * time.Second),
		},
		LLM: LLMConfig{
			Endpoint: "http://localhost:1234/v1/chat/completions",
			Model:    "local-model",
			APIKey:   "lm-studio",
		},
		Scheduler: SchedulerConfig{Interval: Duration(2 * time.Minute)},
		Retry:     RetryConfig{MaxAttempts: 5, Backoff: Duration(10 * time.Minute)},
		Journal:   JournalConfig{Path: ""},
		Logging:   LoggingConfig{Level: "info"},
	}
}
