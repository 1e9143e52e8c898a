// Package scaffold writes the starter files for a repository that keeps its
// badges up to date with BadgeSort: a config file and a GitHub workflow.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chipwolf/badgesort/internal/config"
)

const (
	// ConfigFile is the config path Init writes, relative to the root.
	ConfigFile = ".badgesort.yaml"
	// WorkflowFile is the workflow path Init writes, relative to the root.
	WorkflowFile = ".github/workflows/badgesort.yml"
)

// Options controls Init.
type Options struct {
	Slugs  []string
	ID     string
	Output string
	// Force overwrites existing files.
	Force bool
}

// Init creates the config file and workflow under root and returns the paths
// it wrote. Existing files are left alone unless Force is set.
func Init(root string, opts Options) ([]string, error) {
	if opts.ID == "" {
		opts.ID = config.Default().ID
	}
	if opts.Output == "" {
		opts.Output = "README.md"
	}

	cfg, err := configContent(opts)
	if err != nil {
		return nil, err
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(root, ConfigFile), cfg},
		{filepath.Join(root, filepath.FromSlash(WorkflowFile)), workflowContent(opts)},
	}

	if !opts.Force {
		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				return nil, fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
			}
		}
	}

	var created []string
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return created, fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return created, fmt.Errorf("writing %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}
	return created, nil
}

// configContent renders the starter config. Only the keys a user is likely
// to change are written; everything else keeps its default.
func configContent(opts Options) (string, error) {
	d := config.Default()
	starter := struct {
		Slugs      []string `yaml:"slugs"`
		ID         string   `yaml:"id"`
		Output     string   `yaml:"output"`
		Format     string   `yaml:"format"`
		ColorSort  string   `yaml:"color-sort"`
		BadgeStyle string   `yaml:"badge-style"`
		Provider   string   `yaml:"provider"`
	}{
		Slugs:      opts.Slugs,
		ID:         opts.ID,
		Output:     opts.Output,
		Format:     d.Format,
		ColorSort:  d.ColorSort,
		BadgeStyle: d.BadgeStyle,
		Provider:   d.Provider,
	}
	if len(starter.Slugs) == 0 {
		starter.Slugs = []string{"github"}
	}

	var buf bytes.Buffer
	buf.WriteString("# BadgeSort configuration. Every key can also be set with a\n")
	buf.WriteString("# command-line flag or a BADGESORT_* environment variable.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(starter); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func workflowContent(opts Options) string {
	return strings.ReplaceAll(`name: BadgeSort

on:
  push:
    branches: [main]
    paths: [".badgesort.yaml"]
  workflow_dispatch:

permissions:
  contents: write

jobs:
  badges:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - uses: ChipWolf/BadgeSort@v1
        with:
          config: .badgesort.yaml
      - name: Commit badges
        run: |
          git config user.name "github-actions[bot]"
          git config user.email "github-actions[bot]@users.noreply.github.com"
          git add {{output}}
          git diff --cached --quiet || git commit -m "Update badges"
          git push
`, "{{output}}", opts.Output)
}
