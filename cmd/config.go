package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds tool configuration loaded from file and environment.
type Config struct {
	DefaultCipher  string `mapstructure:"default_cipher"`
	DefaultKeyBits int    `mapstructure:"default_key_bits"`
	UseCBC         bool   `mapstructure:"use_cbc"`
	DefaultBase    string `mapstructure:"default_base"`
	Passphrase     string `mapstructure:"passphrase"`
}

// LoadConfig loads tool configuration using Viper.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("aefs-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.aefs")
	viper.AddConfigPath("/etc/aefs")

	// Set defaults
	viper.SetDefault("default_cipher", "aes")
	viper.SetDefault("default_key_bits", 256)
	viper.SetDefault("use_cbc", true)

	// Allow environment variables (AEFS_PASSPHRASE and friends).
	// Keys without defaults must be bound explicitly or AutomaticEnv
	// never consults them during Unmarshal.
	viper.SetEnvPrefix("AEFS")
	viper.AutomaticEnv()
	viper.BindEnv("passphrase")
	viper.BindEnv("default_base")

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
