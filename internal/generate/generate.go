// Package generate runs one badge generation: select icons, build badge
// URLs, order them by colour, assemble the markup and emit it.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"fortio.org/log"

	"github.com/chipwolf/badgesort/internal/badge"
	"github.com/chipwolf/badgesort/internal/config"
	"github.com/chipwolf/badgesort/internal/icons"
	"github.com/chipwolf/badgesort/internal/markup"
	"github.com/chipwolf/badgesort/internal/order"
	"github.com/chipwolf/badgesort/internal/splice"
)

var (
	// ErrNoSelection means neither slugs nor a random count were given, or
	// none of the requested slugs exist.
	ErrNoSelection = errors.New("no slugs or random icons specified")
	// ErrUnknownFormat wraps an unsupported output format.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownProvider wraps an unsupported badge provider.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrUnknownSort wraps an unsupported sort strategy.
	ErrUnknownSort = errors.New("unknown sort")
	// ErrVerification is returned when --verify is set and a badge service
	// rejects a URL.
	ErrVerification = badge.ErrVerification
	// ErrBadge wraps any failure while assembling a badge. One failed badge
	// aborts the run.
	ErrBadge = errors.New("badge generation failed")
)

// Self-promotion badge.
const (
	thanksSlug  = "badgesort"
	thanksTitle = "BadgeSort"
	thanksHex   = "000000"
	thanksLogo  = "githubsponsors"
)

// Runner executes the generation pipeline for one set of Options.
type Runner struct {
	Options *config.Options
	Dataset icons.Dataset
	// Stdout receives the assembled block when Options.Output is empty.
	Stdout io.Writer
	// Rand drives random selection and the random sort; nil uses the
	// global source.
	Rand *rand.Rand

	// ShieldsBase and BadgenBase override the public services.
	ShieldsBase string
	BadgenBase  string
	Fetcher     *badge.Fetcher
	Rasterizer  badge.Rasterizer
	Workers     int
}

// Result describes a completed run.
type Result struct {
	// Block is the assembled markup including both markers.
	Block   string
	Entries []badge.Entry
	// Splice is set when the block was written to a file.
	Splice splice.Result
}

// Run executes the pipeline.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	opts := r.Options
	if opts == nil {
		opts = config.Default()
	}

	format, err := markup.ParseFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	provider, err := badge.ParseProvider(opts.Provider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownProvider, err)
	}
	strategy, err := order.ParseStrategy(opts.ColorSort)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSort, err)
	}

	entries, err := r.selectEntries(opts)
	if err != nil {
		return nil, err
	}
	if opts.Thanks {
		self, err := icons.NewIcon(thanksSlug, thanksTitle, thanksHex, "")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadge, err)
		}
		entries = append(entries, badge.Entry{Icon: self, Logo: thanksLogo, Link: markup.ProjectURL})
	}

	builder := r.builder(opts, provider)
	if err := builder.BuildAll(ctx, entries); err != nil {
		if errors.Is(err, badge.ErrVerification) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBadge, err)
	}

	log.Debugf("Sorting %d badges by %s", len(entries), strategy)
	sorted, err := order.Sort(entries, badge.Entry.RGB, order.Options{
		Strategy:    strategy,
		HueRotation: opts.HueRotate,
		Reverse:     opts.Reverse,
		Rand:        r.Rand,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSort, err)
	}

	badges := make([]markup.Badge, len(sorted))
	for i, e := range sorted {
		badges[i] = markup.Badge{Title: e.Icon.Title, URL: e.URL, Link: e.Link}
	}
	block, err := markup.Assemble(format, opts.ID, badges)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadge, err)
	}

	res := &Result{Block: block, Entries: sorted}
	if opts.Output == "" {
		w := r.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := io.WriteString(w, block); err != nil {
			return nil, fmt.Errorf("writing badges: %w", err)
		}
		return res, nil
	}

	header, footer := markup.Markers(opts.ID)
	res.Splice, err = splice.File(opts.Output, header, footer, block)
	if err != nil {
		return nil, err
	}
	log.Infof("%s %d badges in %s", res.Splice, len(sorted), opts.Output)
	return res, nil
}

// selectEntries resolves the requested icons. Explicit slugs win over a
// random count; unknown slugs are dropped with a warning.
func (r *Runner) selectEntries(opts *config.Options) ([]badge.Entry, error) {
	if r.Dataset == nil {
		return nil, fmt.Errorf("%w: no icon dataset", ErrNoSelection)
	}

	sels, err := icons.ParseSelections(opts.Slugs)
	if err != nil {
		return nil, err
	}

	var entries []badge.Entry
	switch {
	case len(sels) > 0:
		for _, sel := range sels {
			icon, ok := r.Dataset.Lookup(sel.Slug)
			if !ok {
				log.Warnf("Slug %s does not exist, skipping", sel.Slug)
				continue
			}
			entries = append(entries, badge.Entry{Icon: icon, Link: sel.Link})
		}
		if len(entries) == 0 {
			return nil, fmt.Errorf("%w: none of the requested slugs exist", ErrNoSelection)
		}
		log.Infof("Generating badges from %d slugs", len(entries))
	case opts.Random > 0:
		slugs := r.sample(r.Dataset.Slugs(), opts.Random)
		for _, slug := range slugs {
			icon, _ := r.Dataset.Lookup(slug)
			entries = append(entries, badge.Entry{Icon: icon})
		}
		log.Infof("Generating %d random badges", len(entries))
	case opts.Random < 0:
		for _, slug := range r.Dataset.Slugs() {
			icon, _ := r.Dataset.Lookup(slug)
			entries = append(entries, badge.Entry{Icon: icon})
		}
		log.Infof("Generating all %d badges", len(entries))
	default:
		return nil, ErrNoSelection
	}
	return entries, nil
}

// sample returns n distinct slugs chosen uniformly at random.
func (r *Runner) sample(slugs []string, n int) []string {
	if n > len(slugs) {
		log.Warnf("Requested %d random icons but only %d exist", n, len(slugs))
		n = len(slugs)
	}
	perm := rand.Perm
	if r.Rand != nil {
		perm = r.Rand.Perm
	}
	out := make([]string, n)
	for i, j := range perm(len(slugs))[:n] {
		out[i] = slugs[j]
	}
	return out
}

func (r *Runner) builder(opts *config.Options, provider badge.Provider) *badge.Builder {
	fetcher := r.Fetcher
	if fetcher == nil {
		fetcher = badge.NewFetcher(badge.DefaultTimeout)
	}
	embedder := badge.Embedder{
		MaxURLLength: opts.MaxURLLength,
		Rasterizer:   r.Rasterizer,
	}
	if embedder.Rasterizer == nil {
		embedder.Rasterizer = badge.OKSVGRasterizer{}
	}
	if opts.Minify {
		embedder.Compressor = badge.NewMinifyCompressor()
	}
	return &badge.Builder{
		Provider:    provider,
		Style:       opts.BadgeStyle,
		EmbedSVG:    opts.EmbedSVG,
		Verify:      opts.Verify,
		Inline:      opts.Inline,
		ShieldsBase: r.ShieldsBase,
		BadgenBase:  r.BadgenBase,
		Embedder:    embedder,
		Glyphs:      r.Dataset,
		Logos:       badge.NewLogoCache(fetcher, r.ShieldsBase, opts.SkipLogoCheck),
		Fetcher:     fetcher,
		Workers:     r.Workers,
	}
}
