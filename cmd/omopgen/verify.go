package main

import (
	"github.com/spf13/cobra"

	"github.com/vaibhaw-/omopgen/internal/omopgen/config"
	"github.com/vaibhaw-/omopgen/internal/omopgen/runner"
)

var verifyFlagDir string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check exported CSV files against manifest.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		dir := verifyFlagDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		return runner.RunVerify(cfg, dir, cmd.OutOrStdout())
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFlagDir, "dir", "", "export directory (default output.dir)")
}
