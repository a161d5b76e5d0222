package diff

// Perceptual pixel comparison, ported from the pixelmatch algorithm
// (mapbox/pixelmatch 5.3.0): YIQ color distance against
// maxDelta = 35215*threshold^2, with the Vysniauskas anti-aliasing
// heuristic. The predicate is symmetric in its two inputs and fully
// deterministic. Any change here shifts every reported diff score, so treat
// the constants and traversal order as part of the output contract.

const yiqMaxDelta = 35215.0

func rgb2y(r, g, b float64) float64 { return r*0.29889531 + g*0.58662247 + b*0.11448223 }
func rgb2i(r, g, b float64) float64 { return r*0.59597799 - g*0.27417610 - b*0.32180189 }
func rgb2q(r, g, b float64) float64 { return r*0.21147017 - g*0.52261711 + b*0.31114694 }

// blendChannel blends a channel value toward white by the inverse of alpha.
func blendChannel(c, a float64) float64 { return 255 + (c-255)*a }

// colorDelta computes the YIQ distance between the pixels at byte offsets k
// in img1 and m in img2. Semi-transparent pixels are composited over white
// first. The sign encodes which pixel is brighter; callers compare the
// magnitude. With yOnly only the brightness difference is returned.
func colorDelta(img1, img2 []byte, k, m int, yOnly bool) float64 {
	r1, g1, b1, a1 := float64(img1[k]), float64(img1[k+1]), float64(img1[k+2]), float64(img1[k+3])
	r2, g2, b2, a2 := float64(img2[m]), float64(img2[m+1]), float64(img2[m+2]), float64(img2[m+3])

	if a1 == a2 && r1 == r2 && g1 == g2 && b1 == b2 {
		return 0
	}

	if a1 < 255 {
		a1 /= 255
		r1 = blendChannel(r1, a1)
		g1 = blendChannel(g1, a1)
		b1 = blendChannel(b1, a1)
	}
	if a2 < 255 {
		a2 /= 255
		r2 = blendChannel(r2, a2)
		g2 = blendChannel(g2, a2)
		b2 = blendChannel(b2, a2)
	}

	y1, y2 := rgb2y(r1, g1, b1), rgb2y(r2, g2, b2)
	y := y1 - y2
	if yOnly {
		return y
	}

	i := rgb2i(r1, g1, b1) - rgb2i(r2, g2, b2)
	q := rgb2q(r1, g1, b1) - rgb2q(r2, g2, b2)
	delta := 0.5053*y*y + 0.299*i*i + 0.1957*q*q

	if y1 > y2 {
		return -delta
	}
	return delta
}

// antialiased reports whether the pixel at (x1,y1) in img looks like an
// anti-aliasing artifact: among its 3x3 neighborhood it has at most two
// equal-brightness neighbors, and its darkest or brightest neighbor has many
// identical siblings in both images.
func antialiased(img, img2 []byte, x1, y1, width, height int) bool {
	x0 := maxInt(x1-1, 0)
	y0 := maxInt(y1-1, 0)
	x2 := minInt(x1+1, width-1)
	y2 := minInt(y1+1, height-1)
	pos := (y1*width + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	var minDelta, maxDelta float64
	var minX, minY, maxX, maxY int

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}
			delta := colorDelta(img, img, pos, (y*width+x)*4, true)
			switch {
			case delta == 0:
				zeroes++
				if zeroes > 2 {
					return false
				}
			case delta < minDelta:
				minDelta = delta
				minX, minY = x, y
			case delta > maxDelta:
				maxDelta = delta
				maxX, maxY = x, y
			}
		}
	}

	if minDelta == 0 || maxDelta == 0 {
		return false
	}

	return (hasManySiblings(img, minX, minY, width, height) && hasManySiblings(img2, minX, minY, width, height)) ||
		(hasManySiblings(img, maxX, maxY, width, height) && hasManySiblings(img2, maxX, maxY, width, height))
}

// hasManySiblings reports whether the pixel at (x1,y1) has more than two
// neighbors of exactly its color; image edges count as one sibling.
func hasManySiblings(img []byte, x1, y1, width, height int) bool {
	x0 := maxInt(x1-1, 0)
	y0 := maxInt(y1-1, 0)
	x2 := minInt(x1+1, width-1)
	y2 := minInt(y1+1, height-1)
	pos := (y1*width + x1) * 4

	zeroes := 0
	if x1 == x0 || x1 == x2 || y1 == y0 || y1 == y2 {
		zeroes = 1
	}

	for x := x0; x <= x2; x++ {
		for y := y0; y <= y2; y++ {
			if x == x1 && y == y1 {
				continue
			}
			p := (y*width + x) * 4
			if img[pos] == img[p] && img[pos+1] == img[p+1] && img[pos+2] == img[p+2] && img[pos+3] == img[p+3] {
				zeroes++
			}
			if zeroes > 2 {
				return true
			}
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
