// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared settings for outbound HTTP requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with requests (e.g. "macro-tracker/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FDCConfig holds settings for the FoodData Central client.
type FDCConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// APIKey is the data.gov API key. "DEMO_KEY" works at a low rate limit.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL is the API root (default https://api.nal.usda.gov/fdc/v1).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// DataTypes restricts searches to these FDC data types
	// (default "Foundation", "SR Legacy").
	DataTypes []string `json:"data_types" yaml:"data_types" mapstructure:"data_types"`

	// PageSize is the number of hits requested per search call (default 25).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// RequestsPerSecond throttles outbound calls (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SearchConfig holds settings for the food search pipeline.
type SearchConfig struct {
	// MaxResults caps the number of foods returned (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// Hydrate fetches the full record for hits that came back without nutrients.
	Hydrate bool `json:"hydrate" yaml:"hydrate" mapstructure:"hydrate"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// Path is the database file (default data/macro-tracker.db).
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// ExportDir is where export files are written (default exports/).
	ExportDir string `json:"export_dir" yaml:"export_dir" mapstructure:"export_dir"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins are the CORS origins of the web client.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// Mode is the gin mode: debug, release or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// File, when set, receives log output instead of stderr.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// LogstashURL is a host:port for the UDP Logstash hook. Empty disables it.
	LogstashURL string `json:"logstash_url,omitempty" yaml:"logstash_url,omitempty" mapstructure:"logstash_url"`

	// ElasticURL is an Elasticsearch address for the async log hook. Empty disables it.
	ElasticURL string `json:"elastic_url,omitempty" yaml:"elastic_url,omitempty" mapstructure:"elastic_url"`

	// ElasticIndex is the index the Elasticsearch hook writes to.
	ElasticIndex string `json:"elastic_index,omitempty" yaml:"elastic_index,omitempty" mapstructure:"elastic_index"`
}

// Config groups every component configuration.
type Config struct {
	FDC    FDCConfig    `json:"fdc" yaml:"fdc" mapstructure:"fdc"`
	Search SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Store  StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}
