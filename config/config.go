package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the Cap 113 assistant.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Cache     CacheConfig     `yaml:"cache"`
	Provider  ProviderConfig  `yaml:"provider"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CorpusConfig points at the article files.
type CorpusConfig struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"` // doublestar glob relative to Dir
}

// CacheConfig holds the embedding cache location.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// ProviderConfig is shared by the embedding and chat clients.
type ProviderConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKeyEnv         string        `yaml:"api_key_env"` // Environment variable for API key
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`         // 0 = single attempt
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 = unlimited
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Model         string `yaml:"model"`
	MaxInputChars int    `yaml:"max_input_chars"`
}

// ChatConfig holds chat completion configuration.
type ChatConfig struct {
	Model    string `yaml:"model"`
	Fallback string `yaml:"fallback"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: 10 * time.Second,
		},
		Corpus: CorpusConfig{
			Dir:     filepath.Join("data", "articles"),
			Pattern: "*.json",
		},
		Cache: CacheConfig{
			Dir: ".embeddings",
		},
		Provider: ProviderConfig{
			BaseURL:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   60 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Model:         "text-embedding-ada-002",
			MaxInputChars: 8000,
		},
		Chat: ChatConfig{
			Model:    "gpt-3.5-turbo",
			Fallback: "Sorry, I could not find a relevant article.",
		},
		Retrieve: RetrieveConfig{
			TopK: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for cap113.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "cap113.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".cap113", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve makes the corpus and cache directories absolute against dir.
func (c *Config) Resolve(dir string) {
	if !filepath.IsAbs(c.Corpus.Dir) {
		c.Corpus.Dir = filepath.Join(dir, c.Corpus.Dir)
	}
	if !filepath.IsAbs(c.Cache.Dir) {
		c.Cache.Dir = filepath.Join(dir, c.Cache.Dir)
	}
}

// APIKey reads the provider credential from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}
