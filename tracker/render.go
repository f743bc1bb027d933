package tracker

import (
	"fmt"
	"strconv"
	"strings"
)

// AdjustColor shifts each RGB channel of a #rrggbb color by delta, clamped
// to 0-255. The detail view uses it to derive the darker stop of the cover
// gradient. Malformed colors are returned unchanged.
func AdjustColor(hex string, delta int) string {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return hex
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return hex
	}
	r := clampChannel(int(n>>16&0xff) + delta)
	g := clampChannel(int(n>>8&0xff) + delta)
	b := clampChannel(int(n&0xff) + delta)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Truncate shortens s to at most max characters, ellipsis-terminated.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
