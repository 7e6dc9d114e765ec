package api

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewHTTPError_BodyExcerpt(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{"short body kept", "not found", 9},
		{"ascii capped", strings.Repeat("a", maxErrorBody+10), maxErrorBody},
		// 511 ASCII bytes then a 3-byte rune straddling the cap.
		{"rune not split", strings.Repeat("a", maxErrorBody-1) + "€tail", maxErrorBody - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := newHTTPError("GET", "https://feed.test/posts", 500, []byte(tt.body))
			if len(he.Body) != tt.wantLen {
				t.Errorf("excerpt length = %d, want %d", len(he.Body), tt.wantLen)
			}
			if !utf8.ValidString(he.Body) {
				t.Errorf("excerpt is not valid UTF-8: %q", he.Body)
			}
			if !errors.Is(he, ErrTransport) {
				t.Error("expected errors.Is(err, ErrTransport)")
			}
		})
	}
}
