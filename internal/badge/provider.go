// Package badge builds badge image URLs for shields.io and badgen.net,
// embedding icon glyphs as data URIs when the service cannot render them by
// name.
package badge

import (
	"fmt"
	"strings"
)

// Provider is a badge rendering service.
type Provider string

const (
	// Shields renders named Simple Icons logos itself.
	Shields Provider = "shields"
	// Badgen always needs the logo embedded in the URL.
	Badgen Provider = "badgen"
)

const (
	DefaultShieldsBase = "https://img.shields.io"
	DefaultBadgenBase  = "https://badgen.net"
)

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case Shields, Badgen:
		return p, nil
	}
	return "", fmt.Errorf("unknown provider %q (want shields or badgen)", name)
}

// NativeLogos reports whether the provider can render a logo from its slug.
func (p Provider) NativeLogos() bool {
	return p == Shields
}

// escapeAll percent-encodes every byte outside the RFC 3986 unreserved set.
func escapeAll(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

// shieldsLabel escapes a title for a shields.io static badge path, where a
// single dash separates label from colour.
func shieldsLabel(title string) string {
	return strings.ReplaceAll(escapeAll(title), "-", "--")
}
