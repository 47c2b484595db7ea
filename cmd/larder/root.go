// Root command for the larder CLI.
// Implements: prd005-larder-cli (R1, R6); prd010-configuration-directories (R1, R2, R8).
package main

import (
	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/pkg/larder"
	"github.com/spf13/cobra"
)

// Exit codes per prd005-larder-cli R8.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// Settings loaded from config.yaml by PersistentPreRunE so all subcommands
// can use them.
var (
	configDataDir      string
	configEngine       string
	configLoadFactor   float64
	configCapacityHint int
)

var rootCmd = &cobra.Command{
	Use:     "larder",
	Short:   "Larder benchmarks in-memory hash table engines",
	Version: larder.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configEngine = cfg.GetString(cfgKeyEngine)
		configLoadFactor = cfg.GetFloat64(cfgKeyLoadFactor)
		configCapacityHint = cfg.GetInt(cfgKeyCapacityHint)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.larder-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runsCmd)
}

// resolveDataDir returns the data directory path following prd010 R2.3 precedence:
// --data-dir flag > config.yaml data_dir > LARDER_DATA_DIR env > default $(CWD)/.larder-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory following prd010 R1.3 precedence:
// --config-dir flag > LARDER_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
