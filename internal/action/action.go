// Package action adapts the GitHub Actions runtime to the badgesort CLI:
// INPUT_* environment variables become command-line arguments and captured
// output is published as a step output.
package action

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// OutputName is the step output holding badges printed to stdout.
const OutputName = "badges"

const delimiter = "BADGESORT_EOF"

// secret-looking inputs are never forwarded.
var ignored = []string{"API_KEY", "EVENT", "TOKEN"}

// boolInputs become bare flags when set to "true".
var boolInputs = map[string]bool{
	"verify":          true,
	"reverse":         true,
	"embed-svg":       true,
	"skip-logo-check": true,
}

// Inputs extracts action inputs from environ ("KEY=value" pairs). Names are
// lowercased with the INPUT_ prefix removed; the first occurrence wins.
func Inputs(environ []string) map[string]string {
	inputs := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, "INPUT_") {
			continue
		}
		if slices.ContainsFunc(ignored, func(s string) bool { return strings.Contains(k, s) }) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(k, "INPUT_"))
		if _, dup := inputs[name]; !dup {
			inputs[name] = v
		}
	}
	return inputs
}

// Args translates action inputs into CLI arguments, ordered by input name.
func Args(environ []string) []string {
	inputs := Inputs(environ)
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	slices.Sort(names)

	var args []string
	for _, name := range names {
		v := inputs[name]
		switch {
		case name == "opts":
			args = append(args, strings.Fields(v)...)
		case v == "":
		case name == "slugs":
			args = append(args, "--slugs", strings.Join(strings.Fields(v), ","))
		case name == "sort":
			args = append(args, "--color-sort", v)
		case name == "style":
			args = append(args, "--badge-style", v)
		case boolInputs[name]:
			if strings.EqualFold(v, "true") {
				args = append(args, "--"+name)
			}
		case name == "thanks":
			if strings.EqualFold(v, "false") {
				args = append(args, "--no-thanks")
			}
		default:
			args = append(args, "--"+name, v)
		}
	}
	return args
}

// WriteOutput appends text to the GITHUB_OUTPUT file at path as a multiline
// "badges" output. Blank text writes nothing.
func WriteOutput(path, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_OUTPUT: %w", err)
	}
	_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", OutputName, delimiter, text, delimiter)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing GITHUB_OUTPUT: %w", err)
	}
	return nil
}
