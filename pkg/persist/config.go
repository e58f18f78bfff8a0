package persist

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates the settings file on disk.
type Config interface {
	BasePath() string
	FileName() string
}

// LoadConfig reads .wayfinder config files and WAYFINDER_* env vars.
func LoadConfig() (Config, error) {
	viper.SetDefault("path", "~/.wayfinder")
	viper.SetDefault("file", DefaultFileName)
	viper.SetConfigName(".wayfinder") // .yaml is implicit
	viper.SetEnvPrefix("WAYFINDER")
	viper.AutomaticEnv()

	if override := os.Getenv("WAYFINDER_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}

	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("persist: read config file: %w", err)
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("persist: expand path: %w", err)
	}

	return &FileConfig{Path: path, File: viper.GetString("file")}, nil
}

// FileConfig is the static Config implementation.
type FileConfig struct {
	Path string `json:"path"`
	File string `json:"file"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

func (f *FileConfig) FileName() string {
	if f.File == "" {
		return DefaultFileName
	}
	return f.File
}
