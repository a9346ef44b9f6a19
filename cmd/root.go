package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	basePath   string
	passphrase string
	readOnly   bool
)

var rootCmd = &cobra.Command{
	Use:   "aefs",
	Short: "Encrypted volume superblock tool",
	Long: `aefs manages the superblock layer of encrypted virtual block
volumes: creating volumes, inspecting their metadata, and rewriting
labels and descriptions.

A volume lives next to its base path as a plaintext header file, an
encrypted superblock record, and the encrypted data file. The
passphrase is stretched into the volume key; the cipher configuration
is recorded in the plaintext header so the volume can be reopened
without any external state.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&basePath, "base", "", "volume base path")
	rootCmd.PersistentFlags().StringVarP(&passphrase, "key", "k", "", "volume passphrase (or set AEFS_PASSPHRASE)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "open the volume read-only")

	rootCmd.AddCommand(
		createCmd,
		infoCmd,
		labelCmd,
	)
}

// resolvePassphrase returns the passphrase from the flag or the
// configured environment.
func resolvePassphrase(config *Config) (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if config.Passphrase != "" {
		return config.Passphrase, nil
	}
	return "", fmt.Errorf("no passphrase given: use --key or AEFS_PASSPHRASE")
}

// resolveBasePath returns the base path from the flag or config.
func resolveBasePath(config *Config) (string, error) {
	if basePath != "" {
		return basePath, nil
	}
	if config.DefaultBase != "" {
		return config.DefaultBase, nil
	}
	return "", fmt.Errorf("no volume base path given: use --base")
}
