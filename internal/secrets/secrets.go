// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and an
// optional dotenv file. In the directory each file is one secret: the
// filename is the key name and the trimmed contents are the value.
//
// Supported key files: fdc-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/macro-tracker/internal/logging"
)

const (
	// FDCKeyFile is the secrets-directory file holding the FDC API key.
	FDCKeyFile = "fdc-api-key"

	// FDCEnvVar is the environment and dotenv variable for the FDC API key.
	FDCEnvVar = "FDC_API_KEY"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.Default().WithField("secret", name).WithError(err).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile parses a dotenv file without touching the process
// environment. A missing file yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// FDCKey resolves the FDC API key from, in order: the FDC_API_KEY
// environment variable, the fdc-api-key file in dir, and the dotenv file.
// It returns "" when no source has one.
func FDCKey(dir, envFile string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(FDCEnvVar)); v != "" {
		return v, nil
	}

	files, err := Load(dir)
	if err != nil {
		return "", err
	}
	if v := files[FDCKeyFile]; v != "" {
		return v, nil
	}

	vars, err := LoadEnvFile(envFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(vars[FDCEnvVar]), nil
}
