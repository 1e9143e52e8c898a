// Package splice rewrites a sentinel-delimited region of a text document.
//
// The document is scanned line by line with a two-state machine. A fence
// line (three or more backticks or tildes after optional indentation,
// optionally followed by an info string) toggles between outside and inside
// a code block; fences do not nest and an unclosed fence runs to the end of
// the document. Header and footer lines are only recognised outside a block,
// so marker text shown as an example inside fenced code is never rewritten.
package splice

import (
	"strings"
)

// Result reports how a block was placed into a document.
type Result int

const (
	// Replaced means an existing region was rewritten in place.
	Replaced Result = iota
	// Appended means no region qualified and the block was added at the end.
	Appended
)

func (r Result) String() string {
	if r == Replaced {
		return "replaced"
	}
	return "appended"
}

// Span is a byte range [Start, End) of a document holding a region from the
// first byte of its header line to the last byte of its footer line.
type Span struct {
	Start, End int
}

// Locate finds the footer line outside a fenced block that follows a header
// line outside a fenced block. When several headers precede that footer the
// nearest one opens the region, so an orphan header left in the document is
// never paired with a footer further down.
func Locate(doc, header, footer string) (Span, bool) {
	s := scan(doc, header, footer)
	return s.span, s.found
}

type scanResult struct {
	span  Span
	found bool
	// fence is the opening fence marker when the document ends inside an
	// unclosed block, and empty otherwise.
	fence string
}

func scan(doc, header, footer string) scanResult {
	header, footer = trimEOL(header), trimEOL(footer)

	fence := ""
	start := -1
	offset := 0
	for _, line := range strings.SplitAfter(doc, "\n") {
		next := offset + len(line)
		text := trimEOL(line)

		switch {
		case isFence(text):
			if fence == "" {
				fence = fenceMarker(text)
			} else {
				fence = ""
			}
		case fence != "":
		case start >= 0 && text == footer:
			return scanResult{span: Span{Start: start, End: next}, found: true}
		case text == header:
			start = offset
		}
		offset = next
	}
	return scanResult{fence: fence}
}

// Splice replaces the first qualifying region of doc with block, or appends
// block after a blank line when there is none. block is expected to carry
// its own header and footer lines. A document ending inside an unclosed
// fence gets a matching closing fence before the appended block, so the
// block stays outside code and is found again on the next run.
func Splice(doc, header, footer, block string) (string, Result) {
	s := scan(doc, header, footer)
	if s.found {
		return doc[:s.span.Start] + block + doc[s.span.End:], Replaced
	}
	if s.fence != "" {
		if !strings.HasSuffix(doc, "\n") {
			doc += "\n"
		}
		doc += s.fence + "\n"
	}
	return appendBlock(doc, block), Appended
}

func appendBlock(doc, block string) string {
	switch {
	case doc == "":
		return block
	case strings.HasSuffix(doc, "\n\n"):
		return doc + block
	case strings.HasSuffix(doc, "\n"):
		return doc + "\n" + block
	default:
		return doc + "\n\n" + block
	}
}

// fenceMarker returns the run of backticks or tildes opening a fence line.
func fenceMarker(line string) string {
	s := strings.TrimLeft(line, " \t")
	run := 0
	for run < len(s) && s[run] == s[0] {
		run++
	}
	return s[:run]
}

// isFence reports whether line opens or closes a fenced code block.
func isFence(line string) bool {
	s := strings.TrimLeft(line, " \t")
	if len(s) < 3 || (s[0] != '`' && s[0] != '~') {
		return false
	}
	run := 0
	for run < len(s) && s[run] == s[0] {
		run++
	}
	return run >= 3
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
