package main

import (
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runner"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an OMOP CDM dataset and export it",
	Long: `Generate persons, visits, conditions, drug exposures and measurements,
then export them to the output directory as five CSV files plus a
manifest.json, or as a single SQL script with --format sql.

The output directory must already exist.`,
	RunE: runGenerate,
}

func addGenerateFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Int("persons", 10000, "number of persons")
	fs.Int("visits", 50000, "number of visits")
	fs.Uint64("seed", 0, "random seed (0 derives one from the clock)")
	fs.String("catalog", "", "catalogue YAML file (default built-in)")
	fs.Bool("link-themes", false, "draw drugs from each person's condition theme")
	fs.String("output", "export", "existing output directory")
	fs.String("format", "csv", "output format: csv|sql")
	fs.String("dialect", "postgres", "SQL dialect for --format sql: postgres|mysql")
	fs.Bool("summary", false, "print generation statistics")
}

func init() {
	addGenerateFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	summary, _ := cmd.Flags().GetBool("summary")

	_, err := runner.RunGenerate(cmd.Context(), cfg, runner.GenerateArgs{Summary: summary}, cmd.OutOrStdout())
	return err
}
