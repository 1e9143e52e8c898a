// Package preview renders a README (or just its badge region) to a
// standalone HTML page so badge output can be checked in a browser.
package preview

import (
	"bytes"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"go.abhg.dev/goldmark/toc"

	"github.com/chipwolf/badgesort/internal/markup"
	"github.com/chipwolf/badgesort/internal/splice"
)

// DefaultStyle is the chroma style used for fenced code in previews.
const DefaultStyle = "github"

// Renderer converts GitHub-flavoured Markdown into HTML. Raw HTML passes
// through untouched, so HTML badge blocks render as images.
type Renderer struct {
	md    goldmark.Markdown
	style string
}

// NewRenderer creates a Renderer whose code blocks use the named chroma
// style. An empty style selects DefaultStyle.
func NewRenderer(style string) *Renderer {
	if style == "" {
		style = DefaultStyle
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{md: md, style: style}
}

// Render converts Markdown source bytes into an HTML fragment.
func (r *Renderer) Render(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderWithTOC converts Markdown source into an HTML fragment and also
// returns a nested list linking to its headings. tocHTML is nil when the
// source has no headings.
func (r *Renderer) RenderWithTOC(source []byte) (content []byte, tocHTML []byte, err error) {
	doc := r.md.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source)
	if err != nil {
		return nil, nil, fmt.Errorf("toc inspect: %w", err)
	}
	if list := toc.RenderList(tree); list != nil {
		var buf bytes.Buffer
		if err := r.md.Renderer().Render(&buf, source, list); err != nil {
			return nil, nil, fmt.Errorf("toc render: %w", err)
		}
		tocHTML = buf.Bytes()
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), tocHTML, nil
}

// Page renders source as a complete HTML document titled title, with the
// CSS needed for highlighted code blocks inlined. Documents with headings
// get a table of contents above the body.
func (r *Renderer) Page(title string, source []byte) ([]byte, error) {
	body, tocHTML, err := r.RenderWithTOC(source)
	if err != nil {
		return nil, err
	}
	css, err := ChromaCSS(r.style)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&buf, "<style>\nbody{max-width:980px;margin:2em auto;padding:0 1em;font-family:sans-serif}\n%s</style>\n", css)
	buf.WriteString("</head>\n<body>\n")
	if tocHTML != nil {
		buf.WriteString("<nav class=\"toc\">\n")
		buf.Write(tocHTML)
		buf.WriteString("</nav>\n")
	}
	buf.Write(body)
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Region returns the badge region for id in doc, markers included. Regions
// inside fenced code blocks are ignored. ok is false when doc has none.
func Region(doc []byte, id string) (region []byte, ok bool) {
	header, footer := markup.Markers(id)
	span, ok := splice.Locate(string(doc), header, footer)
	if !ok {
		return nil, false
	}
	return doc[span.Start:span.End], true
}

// ChromaCSS produces the stylesheet for syntax-highlighted code blocks.
func ChromaCSS(style string) (string, error) {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("generate CSS: %w", err)
	}
	return buf.String(), nil
}
