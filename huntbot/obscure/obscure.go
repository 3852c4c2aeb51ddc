// Package obscure implements the reversible encoding applied to stored
// correct answers. It only deters casual answer-peeking (database browser,
// network tab); it is not a security boundary and must never be treated as
// access control.
package obscure

import (
	"encoding/base64"
	"strings"
)

// marker prefixes every encoded value so legacy plaintext rows can be told
// apart and passed through unchanged on decode.
const marker = "x0"

// legacyKey matches the predecessor app's default, keeping rows written by
// it readable when no key is configured.
const legacyKey = "scav-obscure"

// Codec obscures and reveals answer text with an explicit key. The key is
// provided at construction; there is no process-wide default consulted at
// encode or decode time.
type Codec struct {
	key []rune
}

func NewCodec(key string) *Codec {
	if key == "" {
		key = legacyKey
	}
	return &Codec{key: []rune(key)}
}

// Obscure encodes plaintext for storage. Empty input stays empty.
func (c *Codec) Obscure(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	xored := c.xor(plaintext)
	return marker + base64.StdEncoding.EncodeToString([]byte(xored))
}

// Reveal decodes a stored value back to plaintext. Values without the
// marker, or that fail to decode, are returned as-is for backward
// compatibility with rows written before obscuring existed.
func (c *Codec) Reveal(stored string) string {
	if stored == "" {
		return ""
	}
	if !strings.HasPrefix(stored, marker) {
		return stored
	}
	raw, err := base64.StdEncoding.DecodeString(stored[len(marker):])
	if err != nil {
		return stored
	}
	return c.xor(string(raw))
}

func (c *Codec) xor(s string) string {
	runes := []rune(s)
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = r ^ c.key[i%len(c.key)]
	}
	return string(out)
}
