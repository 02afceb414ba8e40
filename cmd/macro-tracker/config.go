// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/macro-tracker/internal/fdc"
	"github.com/pdiddy/macro-tracker/internal/search"
	"github.com/pdiddy/macro-tracker/internal/secrets"
	"github.com/pdiddy/macro-tracker/internal/server"
	"github.com/pdiddy/macro-tracker/internal/store"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// Locations of the API key sources, relative to the working directory.
var (
	secretsDir = ".secrets"
	envFile    = ".env"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("fdc.api_key", "")
	v.SetDefault("fdc.base_url", fdc.DefaultBaseURL)
	v.SetDefault("fdc.data_types", fdc.DefaultDataTypes)
	v.SetDefault("fdc.page_size", fdc.DefaultPageSize)
	v.SetDefault("fdc.requests_per_second", fdc.DefaultRequestsPerSecond)
	v.SetDefault("fdc.max_retries", fdc.DefaultMaxRetries)
	v.SetDefault("fdc.timeout", fdc.DefaultTimeout)
	v.SetDefault("fdc.user_agent", "macro-tracker/"+version)

	v.SetDefault("search.max_results", search.DefaultMaxResults)
	v.SetDefault("search.hydrate", true)

	v.SetDefault("store.path", store.DefaultPath)
	v.SetDefault("store.export_dir", "exports")

	v.SetDefault("server.addr", server.DefaultAddr)
	v.SetDefault("server.allowed_origins", server.DefaultAllowedOrigins)
	v.SetDefault("server.mode", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.logstash_url", "")
	v.SetDefault("log.elastic_url", "")
	v.SetDefault("log.elastic_index", "macro-tracker")
}

// loadConfig decodes the global viper state into a Config and fills the FDC
// API key from the secret sources when the config leaves it empty.
func loadConfig() (types.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if c.FDC.APIKey == "" {
		key, err := secrets.FDCKey(secretsDir, envFile)
		if err != nil {
			return c, err
		}
		c.FDC.APIKey = key
	}
	return c, nil
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Store)
}

func newFDCClient() *fdc.Client {
	return fdc.NewClient(cfg.FDC)
}
