package sample

import (
	"fmt"
	"strings"

	mandel "github.com/marben/mandel_zoom"
)

// Offset selects where the sub-samples of a pixel are placed.
type Offset int

const (
	// OffsetCorner steps from the pixel's reference point in the positive
	// direction only: c + (i·ε, j·ε).
	OffsetCorner Offset = iota
	// OffsetCentered places the sub-grid symmetrically around the
	// reference point.
	OffsetCentered
)

func (o Offset) String() string {
	switch o {
	case OffsetCorner:
		return "corner"
	case OffsetCentered:
		return "centered"
	}
	return fmt.Sprintf("Offset(%d)", int(o))
}

// ParseOffset is the inverse of Offset.String.
func ParseOffset(s string) (Offset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "corner":
		return OffsetCorner, nil
	case "centered", "centred":
		return OffsetCentered, nil
	}
	return 0, mandel.InvalidConfig("offset.parse", fmt.Errorf("unknown supersample offset %q", s))
}

// Supersample evaluates Escape on a subdivisions x subdivisions grid inside
// a square pixel of side extent and returns the mean count. The mean is
// truncated, not rounded. subdivisions must be at least 1.
func Supersample(c mandel.Point, maxIters uint16, extent float64, subdivisions uint8, offset Offset) uint16 {
	if subdivisions <= 1 {
		return Escape(c, maxIters)
	}

	n := int(subdivisions)
	epsilon := extent / float64(n)

	base := c
	if offset == OffsetCentered {
		shift := epsilon/2 - extent/2
		base = mandel.Point{Re: c.Re + shift, Im: c.Im + shift}
	}

	var sum uint64
	for k := 0; k < n*n; k++ {
		i := k % n
		j := k / n
		p := mandel.Point{
			Re: base.Re + epsilon*float64(i),
			Im: base.Im + epsilon*float64(j),
		}
		sum += uint64(Escape(p, maxIters))
	}
	return uint16(sum / uint64(n*n))
}
