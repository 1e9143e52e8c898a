package splice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	header = "<!-- start chipwolf/badgesort test -->\n"
	footer = "<!-- end chipwolf/badgesort test -->\n"
	badge  = "![Badge](http://example.com/badge.svg)\n"
	block  = header + badge + footer
)

func TestSpliceSimpleCodeblockPreserved(t *testing.T) {
	doc := "# Test File\n\nNormal section:\n" + header + footer +
		"\nCodeblock section:\n```html\n" + header + "Example content\n" + footer + "```\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.Equal(t, 1, strings.Count(got, badge))
	assert.Contains(t, got, "Example content")
	assert.Equal(t, "# Test File\n\nNormal section:\n"+block+
		"\nCodeblock section:\n```html\n"+header+"Example content\n"+footer+"```\n", got)
}

func TestSpliceMultipleIdentifiers(t *testing.T) {
	h1, f1 := "<!-- start chipwolf/badgesort id1 -->\n", "<!-- end chipwolf/badgesort id1 -->\n"
	h2, f2 := "<!-- start chipwolf/badgesort id2 -->\n", "<!-- end chipwolf/badgesort id2 -->\n"
	doc := "# Multiple Sections\n\n" + h1 + f1 +
		"\n```html\n" + h1 + "Should not change 1\n" + f1 + "```\n\n" +
		h2 + f2 +
		"\n```markdown\n" + h2 + "Should not change 2\n" + f2 + "```\n"

	b1 := h1 + "![Badge1](http://example.com/badge1.svg)\n" + f1
	b2 := h2 + "![Badge2](http://example.com/badge2.svg)\n" + f2

	got, _ := Splice(doc, h1, f1, b1)
	got, _ = Splice(got, h2, f2, b2)

	assert.Equal(t, 1, strings.Count(got, "![Badge1](http://example.com/badge1.svg)"))
	assert.Equal(t, 1, strings.Count(got, "![Badge2](http://example.com/badge2.svg)"))
	assert.Contains(t, got, "Should not change 1")
	assert.Contains(t, got, "Should not change 2")
}

func TestSpliceFencesToggleWithoutNesting(t *testing.T) {
	doc := "# Nested Content\n\n" + header + footer +
		"\nExample showing codeblock syntax:\n```markdown\nYou can use codeblocks like this\n```\n" +
		"\nOutside again:\n```html\n" + header + "Inside second codeblock\n" + footer + "```\nEnd of example\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.Equal(t, 1, strings.Count(got, badge))
	assert.True(t, strings.HasPrefix(got, "# Nested Content\n\n"+block))
	assert.Contains(t, got, "Inside second codeblock")
}

func TestSpliceReplacesOnlyFirstRegion(t *testing.T) {
	doc := "# No Codeblocks\n\n" + header + footer + "\nMore content\n\n" + header + footer

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.Equal(t, "# No Codeblocks\n\n"+block+"\nMore content\n\n"+header+footer, got)
}

func TestSpliceLanguageTagsAndBareFences(t *testing.T) {
	doc := "# Language Specifiers\n\n" + header + footer +
		"\n```python\n" + header + "Python example\n" + footer + "```\n" +
		"\n```yaml\n" + header + "YAML example\n" + footer + "```\n" +
		"\n```\n" + header + "No language\n" + footer + "```\n"

	got, _ := Splice(doc, header, footer, block)

	assert.Equal(t, 1, strings.Count(got, badge))
	for _, s := range []string{"Python example", "YAML example", "No language"} {
		assert.Contains(t, got, s)
	}
}

func TestSpliceOnlyInsideFenceAppends(t *testing.T) {
	doc := "# Docs\n\n```html\n" + header + "Example\n" + footer + "```\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Appended, res)
	assert.Equal(t, doc+"\n"+block, got)
}

func TestSpliceTildeAndIndentedFences(t *testing.T) {
	doc := "~~~~\n" + header + "tilde\n" + footer + "~~~~\n" +
		"  ```\n" + header + "indented\n" + footer + "  ```\n" +
		header + footer

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.True(t, strings.HasSuffix(got, block))
	assert.Contains(t, got, "tilde")
	assert.Contains(t, got, "indented")
}

func TestSpliceReplacesExistingBadges(t *testing.T) {
	doc := "# Existing Badges\n\n" + header +
		"![OldBadge1](http://example.com/old1.svg)\n![OldBadge2](http://example.com/old2.svg)\n" + footer

	got, _ := Splice(doc, header, footer, header+"![NewBadge](http://example.com/new.svg)\n"+footer)

	assert.NotContains(t, got, "OldBadge1")
	assert.NotContains(t, got, "OldBadge2")
	assert.Contains(t, got, "![NewBadge](http://example.com/new.svg)")
}

func TestSpliceUnclosedCodeblock(t *testing.T) {
	doc := "# Unclosed Codeblock\n\n" + header + footer +
		"\n```html\n" + header + "This codeblock is never closed\n" + footer + "\nMore content here\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.Equal(t, 1, strings.Count(got, badge))
	assert.Contains(t, got, "This codeblock is never closed")
}

func TestSpliceUnclosedFenceHidesLaterMarkers(t *testing.T) {
	doc := "```\nnever closed\n" + header + footer

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Appended, res)
	assert.Equal(t, doc+"```\n\n"+block, got)
}

func TestSpliceOrphanHeaderKeepsUserText(t *testing.T) {
	doc := "# Title\n" + header + "user paragraph that must survive\n"

	once, res := Splice(doc, header, footer, block)
	assert.Equal(t, Appended, res)
	assert.True(t, strings.HasPrefix(once, doc))

	twice, res := Splice(once, header, footer, block)
	assert.Equal(t, Replaced, res)
	assert.Equal(t, once, twice)
	assert.Contains(t, twice, "user paragraph that must survive")
	assert.Equal(t, 1, strings.Count(twice, badge))
}

func TestSpliceLocateUsesNearestHeader(t *testing.T) {
	doc := header + "stray\n" + header + badge + footer

	span, ok := Locate(doc, header, footer)

	assert.True(t, ok)
	assert.Equal(t, len(header+"stray\n"), span.Start)
	assert.Equal(t, len(doc), span.End)
}

func TestSpliceClosesTrailingFence(t *testing.T) {
	doc := "# Title\n```sh\nmake install\n"

	once, res := Splice(doc, header, footer, block)
	assert.Equal(t, Appended, res)
	assert.Equal(t, doc+"```\n\n"+block, once)

	twice, res := Splice(once, header, footer, block)
	assert.Equal(t, Replaced, res)
	assert.Equal(t, once, twice)
}

func TestSpliceClosesTrailingFenceWithOpenerMarker(t *testing.T) {
	doc := "~~~~\nno newline at end"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Appended, res)
	assert.Equal(t, doc+"\n~~~~\n\n"+block, got)
}

func TestSpliceHTMLBody(t *testing.T) {
	doc := "# HTML Format\n\n" + header + footer + "\n```html\n" + header + "Example HTML badges\n" + footer + "```\n"
	html := header + "<p>\n  <a href=\"#\"><img alt=\"Badge\" src=\"http://example.com/badge.svg\"></a>\n</p>\n" + footer

	got, _ := Splice(doc, header, footer, html)

	assert.Equal(t, 1, strings.Count(got, `<img alt="Badge" src="http://example.com/badge.svg">`))
	assert.Contains(t, got, "Example HTML badges")
}

func TestSpliceIdempotent(t *testing.T) {
	docs := []string{
		"# Title\n\n" + header + footer,
		"# Title\n\n" + header + "old\n" + footer + "\ntrailing\n```\n" + header + footer + "```\n",
		"no markers at all",
		"",
	}
	for _, doc := range docs {
		once, _ := Splice(doc, header, footer, block)
		twice, res := Splice(once, header, footer, block)
		assert.Equal(t, once, twice, "doc %q", doc)
		assert.Equal(t, Replaced, res, "doc %q", doc)
	}
}

func TestSpliceAppendKeepsOriginalPrefix(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"", block},
		{"text", "text\n\n" + block},
		{"text\n", "text\n\n" + block},
		{"text\n\n", "text\n\n" + block},
	}
	for _, tt := range tests {
		got, res := Splice(tt.doc, header, footer, block)
		assert.Equal(t, Appended, res)
		assert.Equal(t, tt.want, got, "doc %q", tt.doc)
		assert.True(t, strings.HasPrefix(got, tt.doc))
	}
}

func TestSpliceHeaderWithoutFooterAppends(t *testing.T) {
	doc := "intro\n" + header + "dangling\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Appended, res)
	assert.Equal(t, doc+"\n"+block, got)
}

func TestSpliceCRLFMarkers(t *testing.T) {
	doc := "intro\r\n<!-- start chipwolf/badgesort test -->\r\nold\r\n<!-- end chipwolf/badgesort test -->\r\noutro\r\n"

	got, res := Splice(doc, header, footer, block)

	assert.Equal(t, Replaced, res)
	assert.Equal(t, "intro\r\n"+block+"outro\r\n", got)
}

func TestLocate(t *testing.T) {
	doc := "a\n" + header + "b\n" + footer + "c\n"
	span, ok := Locate(doc, header, footer)
	require.True(t, ok)
	assert.Equal(t, header+"b\n"+footer, doc[span.Start:span.End])

	_, ok = Locate("nothing here\n", header, footer)
	assert.False(t, ok)
}

func TestIsFence(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"```", true},
		{"```go", true},
		{"````", true},
		{"~~~", true},
		{"   ```yaml", true},
		{"``", false},
		{"`code`", false},
		{"text ```", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isFence(tt.line), "line %q", tt.line)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("# Readme\n\n"+header+footer), 0o600))

	res, err := File(path, header, footer, block)
	require.NoError(t, err)
	assert.Equal(t, Replaced, res)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Readme\n\n"+block, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileCreatesMissingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "BADGES.md")

	res, err := File(path, header, footer, block)
	require.NoError(t, err)
	assert.Equal(t, Appended, res)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, block, string(data))
}
