package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaibhaw-/omopgen/internal/omopgen/catalog"
	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
)

var (
	catalogFile   string
	catalogOutput string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate or dump clinical catalogues",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a catalogue YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogFile == "" {
			return fmt.Errorf("--catalog is required")
		}
		c, err := catalog.LoadFile(catalogFile)
		if err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "catalog validated successfully\n")
		fmt.Fprintf(out, "visit types: %d, condition themes: %v, drug themes: %v, measurements: %d\n",
			len(c.VisitTypes), c.ConditionClusters.Names(), c.DrugClusters.Names(), len(c.Measurements))
		return nil
	},
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the active catalogue as YAML",
	Long:  "Write the configured catalogue (or the built-in one) as YAML, as a starting point for a custom file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogFile
		if path == "" {
			path = config.Get().Generation.CatalogFile
		}
		c, err := catalog.LoadFile(path)
		if err != nil {
			return err
		}
		if catalogOutput == "" {
			return catalog.Dump(cmd.OutOrStdout(), c)
		}
		f, err := os.Create(catalogOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		return catalog.Dump(f, c)
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogDumpCmd)

	catalogValidateCmd.Flags().StringVar(&catalogFile, "catalog", "", "Path to catalogue YAML file")
	_ = catalogValidateCmd.MarkFlagRequired("catalog")

	catalogDumpCmd.Flags().StringVar(&catalogFile, "catalog", "", "catalogue to dump (default configured or built-in)")
	catalogDumpCmd.Flags().StringVar(&catalogOutput, "output", "", "output file (default stdout)")
}
