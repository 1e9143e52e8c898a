package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chipwolf/badgesort/internal/badge"
	"github.com/chipwolf/badgesort/internal/config"
	"github.com/chipwolf/badgesort/internal/generate"
	"github.com/chipwolf/badgesort/internal/order"
)

var rootCmd = &cobra.Command{
	Use:   "badgesort",
	Short: "Generate colour-sorted brand badges for your README",
	Long: "BadgeSort builds shields.io or badgen.net badges for Simple Icons slugs, " +
		"orders them by colour and writes them between marker comments in a Markdown or HTML document.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return setLogLevel(level)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		opts, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		_, err = runGenerate(cmd.Context(), opts, cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a YAML or TOML config file")
	rootCmd.PersistentFlags().String("log-level", config.Default().LogLevel, "log level (debug, verbose, info, warning, error)")
	addGenerateFlags(rootCmd.Flags())
}

// addGenerateFlags registers every option flag on fs. Defaults mirror
// config.Default so --help shows the effective values.
func addGenerateFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringSliceP("slugs", "s", nil, "Simple Icons slugs to use, optionally as slug?url=<link>")
	fs.IntP("random", "r", d.Random, "number of random icons (negative for all icons)")
	fs.StringP("color-sort", "c", d.ColorSort, "colour sort: "+strings.Join(order.Names(), ", "))
	fs.StringP("format", "f", d.Format, "output format (markdown, html)")
	fs.StringP("output", "o", d.Output, "document to splice badges into (default stdout)")
	fs.StringP("id", "i", d.ID, "identifier of the badge region")
	fs.StringP("badge-style", "b", d.BadgeStyle, "badge style (flat, flat-square, plastic, for-the-badge, social)")
	fs.Int("hue-rotate", d.HueRotate, "hue rotation in degrees for step sorts")
	fs.Bool("reverse", d.Reverse, "reverse the sorted order")
	fs.Bool("thanks", d.Thanks, "include the BadgeSort badge")
	fs.Bool("no-thanks", false, "omit the BadgeSort badge")
	fs.BoolP("verify", "v", d.Verify, "fail unless every badge URL renders")
	fs.StringP("provider", "p", d.Provider, "badge provider (shields, badgen)")
	fs.Bool("embed-svg", d.EmbedSVG, "always embed logos as data URIs")
	fs.Bool("skip-logo-check", d.SkipLogoCheck, "assume shields.io knows every logo")
	fs.Int("max-url-length", d.MaxURLLength, "longest URL-encoded logo data URI to embed")
	fs.Bool("minify", d.Minify, "minify SVG logos before embedding")
	fs.Bool("inline", d.Inline, "inline rendered badges as data URIs")
	fs.String("icons", d.Icons, "extra icon definitions (YAML, TOML or JSON)")
	fs.String("icons-version", d.IconsVersion, "simple-icons release to use")
	fs.Bool("offline", d.Offline, "use only cached icon data")
	fs.String("cache-dir", d.CacheDir, "icon cache directory (default user cache dir)")
}

func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	if err := log.SetLogLevelStr(level); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return nil
}

// runGenerate loads the icon data and runs one generation, printing to
// stdout when no output file is configured.
func runGenerate(ctx context.Context, opts *config.Options, stdout io.Writer) (*generate.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := setLogLevel(opts.LogLevel); err != nil {
		return nil, err
	}

	fetcher := badge.NewFetcher(badge.DefaultTimeout)
	dataset, err := generate.LoadDataset(ctx, opts, generate.DatasetOptions{Client: fetcher.Client})
	if err != nil {
		return nil, err
	}

	r := &generate.Runner{
		Options: opts,
		Dataset: dataset,
		Stdout:  stdout,
		Fetcher: fetcher,
	}
	return r.Run(ctx)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
