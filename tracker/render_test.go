package tracker

import "testing"

func TestAdjustColor(t *testing.T) {
	cases := []struct {
		hex   string
		delta int
		want  string
	}{
		{"#808080", 16, "#909090"},
		{"#808080", -16, "#707070"},
		{"#fffefd", 20, "#ffffff"}, // clamps high
		{"#010200", -20, "#000000"}, // clamps low
		{"not-a-color", 10, "not-a-color"},
		{"#abc", 10, "#abc"}, // short form unsupported
	}
	for _, tc := range cases {
		if got := AdjustColor(tc.hex, tc.delta); got != tc.want {
			t.Fatalf("AdjustColor(%q, %d) = %q, want %q", tc.hex, tc.delta, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := Truncate("a very long book title", 10); got != "a very ..." {
		t.Fatalf("truncated = %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Fatalf("tiny max = %q", got)
	}
}
