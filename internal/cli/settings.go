package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forsidenis/kanban/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Environment variables are KANBAN_ plus the key with dots
// replaced by underscores (KANBAN_STORE_BACKEND).
const (
	keyServerAddr    = "server.addr"
	keyStoreBackend  = "store.backend"
	keyStorePath     = "store.path"
	keyStoreAutosave = "store.autosave"
	keyLogLevel      = "log.level"
	keyLogFile       = "log.file"
)

// newSettings returns a viper instance reading KANBAN_* environment variables.
func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(domain.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func bindFlag(v *viper.Viper, key string, fs *pflag.FlagSet, flagName string) {
	if err := v.BindPFlag(key, fs.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("bindFlag %q → %q: %v", flagName, key, err))
	}
}

// loadDotEnv loads dir/.env into the process environment if it exists.
// Variables already set are not overridden.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, domain.EnvFileName)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveConfig layers flags and environment over base.
// Precedence: changed flag > environment > base (config files and defaults).
func resolveConfig(v *viper.Viper, base *domain.Config) *domain.Config {
	v.SetDefault(keyServerAddr, base.Server.Addr)
	v.SetDefault(keyStoreBackend, base.Store.Backend)
	v.SetDefault(keyStorePath, base.Store.Path)
	v.SetDefault(keyStoreAutosave, base.Store.AutosaveEnabled())
	v.SetDefault(keyLogLevel, base.Log.Level)
	v.SetDefault(keyLogFile, base.Log.File)

	autosave := v.GetBool(keyStoreAutosave)
	return &domain.Config{
		Warnings: base.Warnings,
		Server: domain.ServerConfig{
			Addr: v.GetString(keyServerAddr),
		},
		Store: domain.StoreConfig{
			Backend:  strings.ToLower(strings.TrimSpace(v.GetString(keyStoreBackend))),
			Path:     v.GetString(keyStorePath),
			Autosave: &autosave,
		},
		Log: domain.LogConfig{
			Level: v.GetString(keyLogLevel),
			File:  v.GetString(keyLogFile),
		},
	}
}
