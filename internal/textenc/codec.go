// Package textenc resolves per-call text encodings and converts file bytes
// to and from Go strings. UTF-8 is the default and the fast path; any other
// IANA-registered encoding (shift_jis, euc-jp, latin-1, ...) is resolved
// through golang.org/x/text. Conversion failures are surfaced, never papered
// over with replacement characters on the write path.
package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used whenever a request omits the encoding parameter.
const DefaultEncoding = "utf-8"

// Codec decodes file bytes into strings and encodes strings back for a single
// named text encoding.
type Codec struct {
	name string
	enc  encoding.Encoding // nil for the UTF-8 fast path
}

// Lookup resolves an encoding name to a Codec. An empty name selects UTF-8.
func Lookup(name string) (*Codec, error) {
	if name == "" {
		name = DefaultEncoding
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "utf-8", "utf8":
		return &Codec{name: "utf-8"}, nil
	}
	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return &Codec{name: normalized, enc: enc}, nil
}

// Name returns the normalized encoding name.
func (c *Codec) Name() string { return c.name }

// IsUTF8 reports whether the codec is the UTF-8 fast path.
func (c *Codec) IsUTF8() bool { return c.enc == nil }

// Decode converts raw file bytes to a string.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("content is not valid utf-8")
		}
		return string(data), nil
	}
	decoded, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode content as %s: %w", c.name, err)
	}
	return string(decoded), nil
}

// Encode converts a string to raw file bytes in the codec's encoding.
func (c *Codec) Encode(content string) ([]byte, error) {
	if c.enc == nil {
		return []byte(content), nil
	}
	encoded, err := c.enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to encode content as %s: %w", c.name, err)
	}
	return encoded, nil
}

// EncodedSize returns the byte length of content in the codec's encoding.
// Content that cannot be represented falls back to its UTF-8 length.
func (c *Codec) EncodedSize(content string) int {
	if c.enc == nil {
		return len(content)
	}
	encoded, err := c.enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return len(content)
	}
	return len(encoded)
}
