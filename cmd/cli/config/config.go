package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the Pratico API.
// It can be overridden with the PRATICO_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("PRATICO_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// tokenPath returns the file where the CLI caches the JWT.
func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pratico", "token"), nil
}

// SaveToken stores the JWT locally for subsequent CLI commands.
func SaveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

// ReadToken returns the locally cached JWT, or an error when not logged in.
func ReadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("no stored token (run 'pratico login' first): %w", err)
	}
	return string(data), nil
}
