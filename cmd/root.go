// Package cmd provides CLI commands for retrograde.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/retrograde/internal/codegen"
	"github.com/papapumpkin/retrograde/internal/config"
	"github.com/papapumpkin/retrograde/internal/logger"
	"github.com/papapumpkin/retrograde/internal/ui"
)

var rootCmd = newRootCmd()

// errMissingMode is returned when no output mode is given.
var errMissingMode = errors.New("missing output mode: want one of c, sqlite")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "retrograde",
		Short: "Massage retrograde JSON data into other formats",
		Long: `Retrograde converts a JSON file of per-date retrograde states into either a
C header/source pair holding a compact bitmap table (mode "c") or a plain
text SQL script that creates and fills a table (mode "sqlite").

  retrograde <mode> <input_json_file> <output_file_prefix>`,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		Args:              cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errMissingMode
			}
			// Valid modes are subcommands, so anything reaching here is unknown.
			_, err := codegen.ParseMode(args[0])
			return err
		},
	}

	root.PersistentFlags().String("config", "", "config file (default .retrograde.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(
		newGenerateCmd(generateC),
		newGenerateCmd(generateSQLite),
		newQueryCmd(),
		newInspectCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Stdio().Error(err.Error())
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".retrograde")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	// Flags override config file and environment when set.
	for key, flag := range map[string]string{
		"verbose":         "verbose",
		"sqlite.table":    "table",
		"sqlite.database": "database",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := viper.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// It's fine if no config file is found; we use defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// loadRuntime loads configuration and builds the diagnostic logger for cmd.
func loadRuntime(cmd *cobra.Command) (config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, logger.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	return cfg, log, nil
}
