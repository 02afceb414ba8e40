// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/macro-tracker/internal/fdc"
	"github.com/pdiddy/macro-tracker/internal/macros"
	"github.com/pdiddy/macro-tracker/internal/secrets"
	"github.com/pdiddy/macro-tracker/internal/store"
	"github.com/pdiddy/macro-tracker/pkg/types"
)

// isolateSecrets points the key sources at an empty temp dir.
func isolateSecrets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldSecrets, oldEnv := secretsDir, envFile
	secretsDir = filepath.Join(dir, ".secrets")
	envFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { secretsDir, envFile = oldSecrets, oldEnv })
	t.Setenv(secrets.FDCEnvVar, "")
	return dir
}

func TestDecodeConfigDefaults(t *testing.T) {
	isolateSecrets(t)
	v := viper.New()
	setDefaults(v)

	c, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, fdc.DefaultBaseURL, c.FDC.BaseURL)
	assert.Equal(t, fdc.DefaultDataTypes, c.FDC.DataTypes)
	assert.Equal(t, fdc.DefaultPageSize, c.FDC.PageSize)
	assert.Equal(t, fdc.DefaultTimeout, c.FDC.Timeout)
	assert.Empty(t, c.FDC.APIKey)
	assert.Equal(t, 10, c.Search.MaxResults)
	assert.True(t, c.Search.Hydrate)
	assert.Equal(t, store.DefaultPath, c.Store.Path)
	assert.Equal(t, "exports", c.Store.ExportDir)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "info", c.Log.Level)
}

func TestDecodeConfigFile(t *testing.T) {
	dir := isolateSecrets(t)
	path := filepath.Join(dir, "macro-tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fdc:
  api_key: from-config
  timeout: 30s
  data_types: [Foundation]
search:
  max_results: 3
  hydrate: false
store:
  path: /tmp/mt.db
server:
  addr: ":9090"
  allowed_origins: ["https://app.example.com"]
log:
  level: debug
  format: json
`), 0o644))

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := decodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "from-config", c.FDC.APIKey)
	assert.Equal(t, 30*time.Second, c.FDC.Timeout)
	assert.Equal(t, []string{"Foundation"}, c.FDC.DataTypes)
	assert.Equal(t, 3, c.Search.MaxResults)
	assert.False(t, c.Search.Hydrate)
	assert.Equal(t, "/tmp/mt.db", c.Store.Path)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, c.Server.AllowedOrigins)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
}

func TestDecodeConfigKeyFromSecrets(t *testing.T) {
	dir := isolateSecrets(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FDC_API_KEY=dotenv-key\n"), 0o644))

	v := viper.New()
	setDefaults(v)
	c, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", c.FDC.APIKey)
}

func TestDataTypeGroups(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   [][]string
	}{
		{"none", nil, nil},
		{"single group", []string{"Foundation,SR Legacy"}, [][]string{{"Foundation", "SR Legacy"}}},
		{"trims and drops empties", []string{" Branded , ", ",", "Survey (FNDDS)"}, [][]string{{"Branded"}, {"Survey (FNDDS)"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataTypeGroups(tt.values))
		})
	}
}

func TestExportPath(t *testing.T) {
	assert.Equal(t, filepath.Join("exports", "user-7.yaml"), exportPath("", 7, "yml"))
	assert.Equal(t, filepath.Join("out", "user-7.csv"), exportPath("out", 7, "csv"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "plan")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(bad, "plan")
		assert.Error(t, err, bad)
	}
}

func TestBuildMacroReport(t *testing.T) {
	food := types.FoodRecord{
		FdcID:       173944,
		Description: "Bananas, raw",
		Nutrients: []types.NutrientObservation{
			{Nutrient: &types.NutrientDefinition{ID: types.NewNumber(1003)}, Amount: types.NewNumber(1.1)},
			{Nutrient: &types.NutrientDefinition{ID: types.NewNumber(1008)}, Amount: types.NewNumber(89)},
		},
	}

	r := buildMacroReport(food, 150)
	assert.InDelta(t, 1.65, r.Macros.Proteins, 1e-9)
	assert.InDelta(t, 133.5, r.Macros.Calories, 1e-9)
	require.Len(t, r.Lines, len(macros.Categories))
	assert.Equal(t, macros.RuleObservationAmount, r.Lines[0].Rule)
	assert.Equal(t, macros.RuleNone, r.Lines[2].Rule)

	var buf bytes.Buffer
	formatMacroReport(&buf, r)
	assert.Contains(t, buf.String(), "Bananas, raw (FDC 173944), 150 g")
	assert.Contains(t, buf.String(), macros.RuleObservationAmount)
}
