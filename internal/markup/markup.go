// Package markup renders an ordered list of badges as Markdown or HTML and
// wraps the result in identifier-keyed sentinel comments.
package markup

import (
	"fmt"
	"html"
	"strings"
)

// Format is an output markup flavour.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// ProjectURL is the link target of the self-promotion badge.
const ProjectURL = "https://github.com/ChipWolf/BadgeSort"

// Placeholder is the link target of badges without a custom URL.
const Placeholder = "#"

const markerNamespace = "chipwolf/badgesort"

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case Markdown, HTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want markdown or html)", name)
}

// Markers returns the header and footer lines, newline terminated, that
// delimit the region owned by id.
func Markers(id string) (header, footer string) {
	return fmt.Sprintf("<!-- start %s %s -->\n", markerNamespace, id),
		fmt.Sprintf("<!-- end %s %s -->\n", markerNamespace, id)
}

// Badge is one rendered badge ready for markup.
type Badge struct {
	Title string
	URL   string
	// Link is the hyperlink target; empty means Placeholder.
	Link string
}

// Render writes one line per badge in the given format.
func Render(f Format, badges []Badge) (string, error) {
	var b strings.Builder
	switch f {
	case Markdown:
		for _, bd := range badges {
			fmt.Fprintf(&b, "[![%s](%s)](%s)\n", altEscaper.Replace(bd.Title), bd.URL, linkOf(bd))
		}
	case HTML:
		b.WriteString("<p>\n")
		for _, bd := range badges {
			fmt.Fprintf(&b, "  <a href=\"%s\"><img alt=\"%s\" src=\"%s\"></a>\n",
				html.EscapeString(linkOf(bd)), html.EscapeString(bd.Title), html.EscapeString(bd.URL))
		}
		b.WriteString("</p>\n")
	default:
		return "", fmt.Errorf("unknown output format %q", string(f))
	}
	return b.String(), nil
}

// Assemble renders badges and wraps them in the markers for id.
func Assemble(f Format, id string, badges []Badge) (string, error) {
	body, err := Render(f, badges)
	if err != nil {
		return "", err
	}
	header, footer := Markers(id)
	return header + body + footer, nil
}

// altEscaper keeps titles such as "[Brand]" from closing the image alt text.
var altEscaper = strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`)

func linkOf(b Badge) string {
	if b.Link == "" {
		return Placeholder
	}
	return b.Link
}
