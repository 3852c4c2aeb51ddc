package obscure

import (
	"strings"
	"testing"
)

func TestCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		plaintext string
	}{
		{name: "simple", key: "hunt-key", plaintext: "Eiffel Tower"},
		{name: "default key", key: "", plaintext: "the red door"},
		{name: "key shorter than text", key: "ab", plaintext: "a much longer answer than the key"},
		{name: "non-ascii", key: "hunt-key", plaintext: "café ☕"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCodec(tt.key)
			stored := c.Obscure(tt.plaintext)
			if !strings.HasPrefix(stored, marker) {
				t.Fatalf("Obscure() = %q, missing %q prefix", stored, marker)
			}
			if stored == marker+tt.plaintext {
				t.Fatalf("Obscure() stored value equals plaintext")
			}
			if got := c.Reveal(stored); got != tt.plaintext {
				t.Errorf("Reveal() = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestCodec_RevealLegacyPassthrough(t *testing.T) {
	c := NewCodec("hunt-key")

	// Rows written before obscuring existed carry no marker.
	if got := c.Reveal("plain answer"); got != "plain answer" {
		t.Errorf("Reveal(plaintext) = %q, want passthrough", got)
	}

	// A marker followed by invalid base64 is also passed through.
	if got := c.Reveal("x0???"); got != "x0???" {
		t.Errorf("Reveal(bad base64) = %q, want passthrough", got)
	}
}

func TestCodec_Empty(t *testing.T) {
	c := NewCodec("hunt-key")
	if got := c.Obscure(""); got != "" {
		t.Errorf("Obscure(empty) = %q, want empty", got)
	}
	if got := c.Reveal(""); got != "" {
		t.Errorf("Reveal(empty) = %q, want empty", got)
	}
}

func TestCodec_KeyMatters(t *testing.T) {
	stored := NewCodec("key-one").Obscure("secret phrase")
	if got := NewCodec("key-two").Reveal(stored); got == "secret phrase" {
		t.Errorf("Reveal() with wrong key recovered the plaintext")
	}
}
