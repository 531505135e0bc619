// Package palette maps escape counts to colours through piecewise-linear
// gradients.
package palette

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	mandel "github.com/marben/mandel_zoom"
)

// ParseHex decodes a "#RRGGBB" colour. The leading '#' is optional; any
// other length or a non-hex digit is a configuration error.
func ParseHex(s string) (colorful.Color, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(digits) != 6 {
		return colorful.Color{}, mandel.InvalidConfig("palette.parse_hex", fmt.Errorf("colour %q: want 6 hex digits, got %d", s, len(digits)))
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return colorful.Color{}, mandel.InvalidConfig("palette.parse_hex", fmt.Errorf("colour %q: %q is not a hex digit", s, r))
		}
	}

	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return colorful.Color{}, mandel.InvalidConfig("palette.parse_hex", fmt.Errorf("colour %q: %w", s, err))
	}
	return c, nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
