package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chipwolf/badgesort/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long:  "Print the options after merging defaults, the config file, BADGESORT_* variables and flags.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		opts, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	addGenerateFlags(configCmd.Flags())
	rootCmd.AddCommand(configCmd)
}
