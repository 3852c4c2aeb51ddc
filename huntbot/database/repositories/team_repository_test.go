package repositories

import (
	"strings"
	"testing"

	"github.com/wanderparty/huntbot/huntbot/config"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := generateJoinCode()
		if len(code) != config.JoinCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), config.JoinCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(joinCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 32^6 space should not collide.
	if len(seen) < 95 {
		t.Fatalf("only %d distinct codes out of 100", len(seen))
	}
}
