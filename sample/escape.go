// Package sample computes escape-time iteration counts for points, pixels
// and whole regions of the complex plane.
package sample

import mandel "github.com/marben/mandel_zoom"

// Escape returns the number of iterations of z = z² + c, starting at z = 0,
// performed before |z| leaves the circle of radius 2. A result of maxIters
// means the point did not escape and is presumed inside the set.
func Escape(c mandel.Point, maxIters uint16) uint16 {
	var re, im float64

	var i uint16
	for re*re+im*im < 4.0 && i < maxIters {
		re, im = re*re-im*im+c.Re, 2*re*im+c.Im
		i++
	}
	return i
}

// EscapeAt is Escape for a bare coordinate pair.
func EscapeAt(re, im float64, maxIters uint16) uint16 {
	return Escape(mandel.Point{Re: re, Im: im}, maxIters)
}
