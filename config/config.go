package config

import (
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/pixiretro/pxpack/log"
)

// Config is the tool-level configuration. It carries defaults that apply to
// every packaging run but are not part of any recipe: the default settings
// profile and the remotes that requirement pins are fetched from.
type Config struct {
	// Profile supplies default `key=value` settings and option overrides.
	// Command line arguments take precedence over profile values.
	Profile map[string]string

	// Remotes maps a remote name to a URL template. The placeholders
	// `{name}`, `{version}` and `{channel}` are substituted from the
	// requirement being fetched.
	Remotes map[string]string
}

var config *Config

const configFileName = "config"

func getConfigDir() (string, error) {
	if configDir, ok := os.LookupEnv("PXPACK_CONFIG_DIR"); ok {
		return configDir, nil
	}

	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "pxpack"), nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(homeDir, ".config", "pxpack"), nil
}

func loadConfiguration() Config {
	var config Config

	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("Unable to find pxpack config directory. Using default configuration\n")
		return config
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("pxpack")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Debug("No configuration file in `%s`: `%s`. Using default configuration\n", configDir, err)
		return config
	}
	if err := v.Unmarshal(&config); err != nil {
		log.Debug("Error reading configuration file at `%s`: `%s`. Using default configuration\n", v.ConfigFileUsed(), err)
		return config
	}

	log.Debug("Loaded configuration from `%s`\n", v.ConfigFileUsed())
	log.Debug("Running with configuration: %+v\n", config)
	return config
}

// GetConfig loads the tool configuration on first use and caches it.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}

	return *config
}
