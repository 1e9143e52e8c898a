package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/chipwolf/badgesort/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview [document]",
	Short: "Render a document to HTML",
	Long: "Render a Markdown document (README.md by default), or only its badge region, " +
		"to a standalone HTML page. With --watch the page is rebuilt whenever the document changes; " +
		"--port serves it on localhost and reloads the browser after each rebuild.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := "README.md"
		if len(args) == 1 {
			doc = args[0]
		}
		id, _ := cmd.Flags().GetString("id")
		output, _ := cmd.Flags().GetString("output")
		style, _ := cmd.Flags().GetString("style")
		watch, _ := cmd.Flags().GetBool("watch")
		port, _ := cmd.Flags().GetInt("port")

		var live *preview.LiveServer
		if port > 0 {
			watch = true
			live = preview.NewLiveServer()
		}
		if watch && output == "" && live == nil {
			return fmt.Errorf("--watch needs --output or --port")
		}

		r := preview.NewRenderer(style)
		render := func() error {
			source, err := os.ReadFile(doc)
			if err != nil {
				return fmt.Errorf("reading document: %w", err)
			}
			if id != "" {
				region, ok := preview.Region(source, id)
				if !ok {
					return fmt.Errorf("no badge region %q in %s", id, doc)
				}
				source = region
			}
			page, err := r.Page(filepath.Base(doc), source)
			if err != nil {
				return err
			}
			if live != nil {
				live.Update(page)
				log.Infof("Reloaded preview of %s", doc)
			}
			switch {
			case output != "":
				if err := os.WriteFile(output, page, 0o644); err != nil {
					return fmt.Errorf("writing preview: %w", err)
				}
				log.Infof("Wrote preview of %s to %s", doc, output)
			case live == nil:
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			return nil
		}

		if err := render(); err != nil {
			return err
		}
		if !watch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		if live != nil {
			ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
			if err != nil {
				return fmt.Errorf("listening on port %d: %w", port, err)
			}
			go func() {
				serveErr <- live.Serve(ctx, ln)
				stop()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving preview at http://localhost:%d\n", port)
		}

		w := preview.NewWatcher([]string{doc}, preview.DefaultDebounce, func() {
			if err := render(); err != nil {
				log.Errf("Preview failed: %v", err)
			}
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, press Ctrl+C to stop\n", doc)
		if err := w.Run(ctx); err != nil {
			return err
		}
		if live != nil {
			return <-serveErr
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringP("id", "i", "", "render only the badge region with this identifier")
	previewCmd.Flags().StringP("output", "o", "", "HTML file to write (default stdout)")
	previewCmd.Flags().String("style", preview.DefaultStyle, "chroma style for code blocks")
	previewCmd.Flags().BoolP("watch", "w", false, "re-render when the document changes")
	previewCmd.Flags().Int("port", 0, "serve the preview on this localhost port with live reload (implies --watch)")

	rootCmd.AddCommand(previewCmd)
}
