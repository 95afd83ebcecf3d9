// Package config provides configuration management for agentdir.
// It loads settings from environment variables with the AGENTDIR_ prefix
// and provides sensible defaults for all configuration options.
//
// An optional YAML file can overlay the defaults; environment variables
// always take precedence over file values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the agentdir application.
type Config struct {
	Scrape    ScrapeConfig
	Output    OutputConfig
	WordCloud WordCloudConfig
}

// ScrapeConfig controls how the collector talks to the directory site.
type ScrapeConfig struct {
	BaseURL           string  // Directory site base URL (default: https://aiagentsdirectory.com)
	TimeoutSeconds    int     // Per-request timeout in seconds (default: 15)
	MaxRetries        int     // Retries per page fetch after the first attempt (default: 3)
	RequestsPerSecond float64 // Token-bucket rate limit across all requests (default: 2)
	FetchDetails      bool    // Fetch each agent's detail page (default: true)
	FailFast          bool    // Abort the run on the first exhausted fetch (default: false)
}

// OutputConfig contains file locations shared by all commands.
type OutputConfig struct {
	DataPath string // Path to the scraped JSON document (default: ai_agents_data.json)
	ExcelDir string // Directory for exported spreadsheets (default: .)
}

// WordCloudConfig contains word-cloud rendering settings.
type WordCloudConfig struct {
	ImagePath string // Output PNG path (default: minecraft_wordcloud.png)
	FontPath  string // TTF font used for rendering (required for generate_wordcloud)
	Width     int    // Image width in pixels (default: 800)
	Height    int    // Image height in pixels (default: 400)
	MaxWords  int    // Cap on distinct words rendered (default: 120)
	Seed      int64  // Layout RNG seed for reproducible output (default: 42)
}

// fileConfig mirrors Config for YAML decoding. Pointer fields distinguish
// "absent" from zero values so a sparse file only overrides what it names.
type fileConfig struct {
	Scrape struct {
		BaseURL           *string  `yaml:"base_url"`
		TimeoutSeconds    *int     `yaml:"timeout_seconds"`
		MaxRetries        *int     `yaml:"max_retries"`
		RequestsPerSecond *float64 `yaml:"requests_per_second"`
		FetchDetails      *bool    `yaml:"fetch_details"`
		FailFast          *bool    `yaml:"fail_fast"`
	} `yaml:"scrape"`
	Output struct {
		DataPath *string `yaml:"data_path"`
		ExcelDir *string `yaml:"excel_dir"`
	} `yaml:"output"`
	WordCloud struct {
		ImagePath *string `yaml:"image_path"`
		FontPath  *string `yaml:"font_path"`
		Width     *int    `yaml:"width"`
		Height    *int    `yaml:"height"`
		MaxWords  *int    `yaml:"max_words"`
		Seed      *int64  `yaml:"seed"`
	} `yaml:"wordcloud"`
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the AGENTDIR_ prefix.
func LoadConfig() (*Config, error) {
	cfg := defaults()
	applyEnv(cfg)
	return cfg, nil
}

// LoadConfigFile loads configuration from defaults, overlays the YAML file
// at path, then applies environment variables on top.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: failed to parse %q: %w", path, err)
	}
	applyFile(cfg, &fc)

	applyEnv(cfg)
	return cfg, nil
}

// defaults constructs a Config with the built-in default values.
func defaults() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			BaseURL:           "https://aiagentsdirectory.com",
			TimeoutSeconds:    15,
			MaxRetries:        3,
			RequestsPerSecond: 2,
			FetchDetails:      true,
			FailFast:          false,
		},
		Output: OutputConfig{
			DataPath: "ai_agents_data.json",
			ExcelDir: ".",
		},
		WordCloud: WordCloudConfig{
			ImagePath: "minecraft_wordcloud.png",
			FontPath:  "",
			Width:     800,
			Height:    400,
			MaxWords:  120,
			Seed:      42,
		},
	}
}

// applyFile overlays non-nil file values onto cfg.
func applyFile(cfg *Config, fc *fileConfig) {
	setString(&cfg.Scrape.BaseURL, fc.Scrape.BaseURL)
	setInt(&cfg.Scrape.TimeoutSeconds, fc.Scrape.TimeoutSeconds)
	setInt(&cfg.Scrape.MaxRetries, fc.Scrape.MaxRetries)
	if fc.Scrape.RequestsPerSecond != nil {
		cfg.Scrape.RequestsPerSecond = *fc.Scrape.RequestsPerSecond
	}
	setBool(&cfg.Scrape.FetchDetails, fc.Scrape.FetchDetails)
	setBool(&cfg.Scrape.FailFast, fc.Scrape.FailFast)

	setString(&cfg.Output.DataPath, fc.Output.DataPath)
	setString(&cfg.Output.ExcelDir, fc.Output.ExcelDir)

	setString(&cfg.WordCloud.ImagePath, fc.WordCloud.ImagePath)
	setString(&cfg.WordCloud.FontPath, fc.WordCloud.FontPath)
	setInt(&cfg.WordCloud.Width, fc.WordCloud.Width)
	setInt(&cfg.WordCloud.Height, fc.WordCloud.Height)
	setInt(&cfg.WordCloud.MaxWords, fc.WordCloud.MaxWords)
	if fc.WordCloud.Seed != nil {
		cfg.WordCloud.Seed = *fc.WordCloud.Seed
	}
}

// applyEnv overlays AGENTDIR_ environment variables onto cfg.
func applyEnv(cfg *Config) {
	cfg.Scrape.BaseURL = getEnv("AGENTDIR_BASE_URL", cfg.Scrape.BaseURL)
	cfg.Scrape.TimeoutSeconds = getEnvInt("AGENTDIR_TIMEOUT_SECONDS", cfg.Scrape.TimeoutSeconds)
	cfg.Scrape.MaxRetries = getEnvInt("AGENTDIR_MAX_RETRIES", cfg.Scrape.MaxRetries)
	cfg.Scrape.RequestsPerSecond = getEnvFloat("AGENTDIR_REQUESTS_PER_SECOND", cfg.Scrape.RequestsPerSecond)
	cfg.Scrape.FetchDetails = getEnvBool("AGENTDIR_FETCH_DETAILS", cfg.Scrape.FetchDetails)
	cfg.Scrape.FailFast = getEnvBool("AGENTDIR_FAIL_FAST", cfg.Scrape.FailFast)

	cfg.Output.DataPath = getEnv("AGENTDIR_DATA_PATH", cfg.Output.DataPath)
	cfg.Output.ExcelDir = getEnv("AGENTDIR_EXCEL_DIR", cfg.Output.ExcelDir)

	cfg.WordCloud.ImagePath = getEnv("AGENTDIR_WORDCLOUD_PATH", cfg.WordCloud.ImagePath)
	cfg.WordCloud.FontPath = getEnv("AGENTDIR_FONT_PATH", cfg.WordCloud.FontPath)
	cfg.WordCloud.Width = getEnvInt("AGENTDIR_WORDCLOUD_WIDTH", cfg.WordCloud.Width)
	cfg.WordCloud.Height = getEnvInt("AGENTDIR_WORDCLOUD_HEIGHT", cfg.WordCloud.Height)
	cfg.WordCloud.MaxWords = getEnvInt("AGENTDIR_WORDCLOUD_MAX_WORDS", cfg.WordCloud.MaxWords)
	cfg.WordCloud.Seed = getEnvInt64("AGENTDIR_WORDCLOUD_SEED", cfg.WordCloud.Seed)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 retrieves a 64-bit integer environment variable or returns a
// default value.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
