package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chipwolf/badgesort/internal/action"
	"github.com/chipwolf/badgesort/internal/config"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run as a GitHub Action",
	Long: "Read INPUT_* variables set by the GitHub Actions runner, generate badges, " +
		"and publish stdout output as the 'badges' step output.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		argv := action.Args(os.Environ())
		log.Debugf("Action arguments: %q", argv)

		fs := pflag.NewFlagSet("action", pflag.ContinueOnError)
		fs.String("config", "", "")
		fs.String("log-level", config.Default().LogLevel, "")
		addGenerateFlags(fs)
		if err := fs.Parse(argv); err != nil {
			return fmt.Errorf("parsing action inputs: %w", err)
		}

		configPath, _ := fs.GetString("config")
		opts, err := config.Load(configPath, fs)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		out := io.MultiWriter(cmd.OutOrStdout(), &buf)
		if _, err := runGenerate(cmd.Context(), opts, out); err != nil {
			return err
		}
		if err := action.WriteOutput(os.Getenv("GITHUB_OUTPUT"), buf.String()); err != nil {
			log.Errf("Failed to write step output: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionCmd)
}
