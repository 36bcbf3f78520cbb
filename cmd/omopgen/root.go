package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/logger"
)

var (
	cfgFile string
	Version = "v0.1"
	build   = "dev"
	rootCmd = &cobra.Command{
		Use:   "omopgen",
		Short: "omopgen - synthetic OMOP CDM v5.4 data generator",
		Long: `omopgen synthesizes person, visit_occurrence, condition_occurrence,
drug_exposure and measurement tables with consistent foreign keys and
clinically themed conditions and drugs.

Run without a subcommand it behaves like "omopgen generate".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// load config
			if cfgFile != "" {
				viper.SetConfigFile(cfgFile)
			} else {
				// default: ./omopgen.yaml
				viper.SetConfigFile("omopgen.yaml")
			}
			if err := viper.ReadInConfig(); err != nil {
				if cfgFile != "" {
					return fmt.Errorf("read config: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Warning: could not read config (%v). Using defaults and flags.\n", err)
			}
			if err := bindFlags(cmd); err != nil {
				return err
			}
			if err := config.Load(viper.GetViper()); err != nil {
				return err
			}

			// init logger
			cfg := config.Get()
			if err := logger.InitLogger(logger.LogConfig{
				Level:       cfg.Logging.Level,
				Development: cfg.Logging.Development,
			}); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		RunE: runGenerate,
	}
)

// flagKeys maps command flags onto config keys. Only flags the running
// command defines are bound.
var flagKeys = map[string]string{
	"persons":     "generation.persons",
	"visits":      "generation.visits",
	"seed":        "generation.seed",
	"catalog":     "generation.catalog_file",
	"link-themes": "generation.link_themes",
	"output":      "output.dir",
	"format":      "output.format",
	"dialect":     "output.dialect",
	"driver":      "database.driver",
	"dsn":         "database.dsn",
	"timeout":     "database.timeout",
	"log-level":   "logging.level",
	"run-log":     "logging.run_log",
}

func bindFlags(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

func init() {
	cobra.OnInitialize()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./omopgen.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().String("run-log", "", "append a JSON run summary to this file")
	addGenerateFlags(rootCmd)

	// add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
