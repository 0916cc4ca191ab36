// Package config reads the mentor's settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultStoragePath is where the ledger database lives unless storage.path is set.
const DefaultStoragePath = "$HOME/.local/share/mentor/mentor.db"

// StoragePath returns the expanded database path.
func StoragePath() string {
	path := viper.GetString("storage.path")
	if path == "" {
		path = DefaultStoragePath
	}
	return ExpandPath(path)
}

// StartingBalance returns the opening balance used for net worth.
func StartingBalance(fallback float64) float64 {
	if viper.IsSet("ledger.starting_balance") {
		return viper.GetFloat64("ledger.starting_balance")
	}
	return fallback
}

// ExpandPath resolves a leading ~ to the home directory, then expands
// environment variables. Database, backup and credential paths all pass
// through here.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
