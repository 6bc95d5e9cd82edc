package store

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config resolves the location of the calendar store.
type Config interface {
	Path() string
}

// LoadConfig reads the optional .vical config file and environment
// (VICAL_PATH) to locate the store, defaulting to the per-user data
// path.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.local/share/vical/calendar.json")
	viper.SetConfigName(".vical") // .yaml is implicit
	viper.SetEnvPrefix("VICAL")
	viper.AutomaticEnv()

	if override := os.Getenv("VICAL_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expanding store path: %w", err)
	}
	return &fileConfig{path: path}, nil
}

type fileConfig struct {
	path string
}

func (f *fileConfig) Path() string {
	return f.path
}
