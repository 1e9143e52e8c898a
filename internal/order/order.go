// Package order arranges colour-keyed records into a visually pleasing
// sequence using one of a closed set of strategies.
package order

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/chipwolf/badgesort/internal/color"
	"github.com/chipwolf/badgesort/internal/hilbert"
)

// Strategy selects how records are ordered.
type Strategy int

const (
	Hilbert Strategy = iota
	HSV
	Step
	StepInvert
	Luminance
	Random
)

// StepRepetitions is the number of hue bands used by the step strategies.
const StepRepetitions = 8

var strategyNames = [...]string{
	Hilbert:    "hilbert",
	HSV:        "hsv",
	Step:       "step",
	StepInvert: "step_invert",
	Luminance:  "luminance",
	Random:     "random",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Names lists every strategy name in declaration order.
func Names() []string {
	return slices.Clone(strategyNames[:])
}

// ParseStrategy maps a strategy name to its Strategy. Matching ignores case
// and accepts '-' in place of '_'.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for s, candidate := range strategyNames {
		if n == candidate {
			return Strategy(s), nil
		}
	}
	return 0, fmt.Errorf("unknown sort %q (want one of %s)", name, strings.Join(strategyNames[:], ", "))
}

// Options controls a single Sort call.
type Options struct {
	Strategy    Strategy
	HueRotation int
	Reverse     bool
	// Rand drives the random strategy. A nil Rand uses the global source.
	Rand *rand.Rand
}

// compareFunc compares two RGB triples for one deterministic strategy.
type compareFunc func(a, b color.RGB, hueRotation int) int

var comparators = map[Strategy]compareFunc{
	Hilbert: func(a, b color.RGB, _ int) int {
		return cmp.Compare(hilbert.IndexRGB(a), hilbert.IndexRGB(b))
	},
	HSV: func(a, b color.RGB, _ int) int {
		ah, as, av := color.HSV(a[0], a[1], a[2])
		bh, bs, bv := color.HSV(b[0], b[1], b[2])
		if c := cmp.Compare(ah, bh); c != 0 {
			return c
		}
		if c := cmp.Compare(as, bs); c != 0 {
			return c
		}
		return cmp.Compare(av, bv)
	},
	Step: func(a, b color.RGB, rot int) int {
		return cmpStep(a, b, rot, false)
	},
	StepInvert: func(a, b color.RGB, rot int) int {
		return cmpStep(a, b, rot, true)
	},
	Luminance: func(a, b color.RGB, _ int) int {
		return cmp.Compare(color.Luminance(a[0], a[1], a[2]), color.Luminance(b[0], b[1], b[2]))
	},
}

// Sort returns a new slice holding items in the order chosen by opts.
// Deterministic strategies are stable. Reverse is applied after ordering
// for every strategy, including random.
func Sort[T any](items []T, rgb func(T) color.RGB, opts Options) ([]T, error) {
	out := slices.Clone(items)

	switch opts.Strategy {
	case Random:
		shuffle := rand.Shuffle
		if opts.Rand != nil {
			shuffle = opts.Rand.Shuffle
		}
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	default:
		compare, ok := comparators[opts.Strategy]
		if !ok {
			return nil, fmt.Errorf("no comparator for sort %s", opts.Strategy)
		}
		slices.SortStableFunc(out, func(a, b T) int {
			return compare(rgb(a), rgb(b), opts.HueRotation)
		})
	}

	if opts.Reverse {
		slices.Reverse(out)
	}
	return out, nil
}

func cmpStep(a, b color.RGB, rot int, invert bool) int {
	ka := color.Step(a[0], a[1], a[2], StepRepetitions, rot, invert)
	kb := color.Step(b[0], b[1], b[2], StepRepetitions, rot, invert)
	switch {
	case ka.Less(kb):
		return -1
	case kb.Less(ka):
		return 1
	}
	return 0
}
