package diff

import (
	"fmt"
	"math"

	"github.com/overlaykit/pixelproof/internal/imaging"
)

// dimAlpha controls how faintly matching pixels appear in the diff image.
const dimAlpha = 0.1

type ScoreResult struct {
	MismatchCount int
	DiffScore     float64
	DiffImage     *imaging.Raster
}

// Score runs the perceptual comparison over two equally sized rasters and
// renders the diff visualization: matches dimmed to faint grayscale,
// anti-aliasing artifacts yellow, real mismatches red. DiffScore is the
// mismatched fraction of all compared pixels.
func Score(a, b *imaging.Raster, p Profile) (*ScoreResult, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("score: size mismatch %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	w, h := a.Width, a.Height
	if len(a.Pix) != w*h*4 || len(b.Pix) != w*h*4 {
		return nil, fmt.Errorf("score: raster buffer length mismatch for %dx%d", w, h)
	}

	out := make([]byte, w*h*4)
	maxDelta := yiqMaxDelta * p.MatchThreshold * p.MatchThreshold
	mismatches := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pos := (y*w + x) * 4
			delta := colorDelta(a.Pix, b.Pix, pos, pos, false)

			if math.Abs(delta) > maxDelta {
				if antialiased(a.Pix, b.Pix, x, y, w, h) || antialiased(b.Pix, a.Pix, x, y, w, h) {
					setPixel(out, pos, 255, 255, 0)
				} else {
					setPixel(out, pos, 255, 0, 0)
					mismatches++
				}
			} else {
				v := blendChannel(
					rgb2y(float64(a.Pix[pos]), float64(a.Pix[pos+1]), float64(a.Pix[pos+2])),
					dimAlpha*float64(a.Pix[pos+3])/255,
				)
				g := uint8(v)
				setPixel(out, pos, g, g, g)
			}
		}
	}

	return &ScoreResult{
		MismatchCount: mismatches,
		DiffScore:     float64(mismatches) / float64(w*h),
		DiffImage:     &imaging.Raster{Width: w, Height: h, Pix: out},
	}, nil
}

func setPixel(pix []byte, pos int, r, g, b uint8) {
	pix[pos] = r
	pix[pos+1] = g
	pix[pos+2] = b
	pix[pos+3] = 255
}
