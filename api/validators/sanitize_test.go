package validators

import (
	"net/http/httptest"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"trims", "  bolt  ", 10, "bolt"},
		{"caps ascii", "abcdef", 3, "abc"},
		{"keeps multibyte whole", "ñandú", 2, "ña"},
		{"exact length", "€€€", 3, "€€€"},
		{"no cap", "  long value ", 0, "long value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeString(tc.input, tc.maxLen)
			if got != tc.want {
				t.Fatalf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, got, tc.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("result %q is not valid utf-8", got)
			}
		})
	}
}

func TestQueryStringCapsByCharacters(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/master?search=%C3%B1%C3%B1%C3%B1", nil)
	if got := QueryString(req, "search", 2); got != "ññ" {
		t.Fatalf("expected ññ, got %q", got)
	}
}
