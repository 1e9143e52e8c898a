package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chipwolf/badgesort/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config and GitHub workflow",
	Long:  "Write .badgesort.yaml and a workflow that regenerates badges whenever the config changes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slugs, _ := cmd.Flags().GetStringSlice("slugs")
		id, _ := cmd.Flags().GetString("id")
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determining working directory: %w", err)
		}
		created, err := scaffold.Init(root, scaffold.Options{Slugs: slugs, ID: id, Output: output, Force: force})
		if err != nil {
			return err
		}
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", p)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringSliceP("slugs", "s", nil, "slugs to start with")
	initCmd.Flags().StringP("id", "i", "", "badge region identifier")
	initCmd.Flags().StringP("output", "o", "", "document the workflow updates (default README.md)")
	initCmd.Flags().Bool("force", false, "overwrite existing files")

	rootCmd.AddCommand(initCmd)
}
