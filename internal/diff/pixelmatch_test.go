package diff

import (
	"math"
	"testing"
)

func pixel(r, g, b, a byte) []byte { return []byte{r, g, b, a} }

func TestColorDelta_IdenticalPixels(t *testing.T) {
	p := pixel(120, 45, 200, 255)
	if d := colorDelta(p, p, 0, 0, false); d != 0 {
		t.Errorf("identical pixels should have zero delta, got %v", d)
	}
}

func TestColorDelta_SymmetricMagnitude(t *testing.T) {
	a := pixel(255, 255, 255, 255)
	b := pixel(0, 0, 0, 255)
	d1 := colorDelta(a, b, 0, 0, false)
	d2 := colorDelta(b, a, 0, 0, false)
	if math.Abs(d1) != math.Abs(d2) {
		t.Errorf("delta magnitude should be symmetric, got %v and %v", d1, d2)
	}
	if d1 == 0 {
		t.Error("black vs white should not be zero delta")
	}
}

func TestColorDelta_TransparentPixelsBlendToWhite(t *testing.T) {
	a := pixel(255, 255, 255, 0)
	b := pixel(0, 0, 0, 0)
	if d := colorDelta(a, b, 0, 0, false); d != 0 {
		t.Errorf("fully transparent pixels should compare equal, got %v", d)
	}
}

func TestColorDelta_MaxContrastExceedsEveryThreshold(t *testing.T) {
	a := pixel(255, 255, 255, 255)
	b := pixel(0, 0, 0, 255)
	d := math.Abs(colorDelta(a, b, 0, 0, false))
	for level := 1; level <= 5; level++ {
		p := ProfileFor(level)
		if d <= yiqMaxDelta*p.MatchThreshold*p.MatchThreshold {
			t.Errorf("level %d: max contrast delta %v should exceed threshold", level, d)
		}
	}
}

func TestHasManySiblings_UniformImage(t *testing.T) {
	img := make([]byte, 5*5*4)
	for i := range img {
		img[i] = 128
	}
	if !hasManySiblings(img, 2, 2, 5, 5) {
		t.Error("uniform image pixel should have many siblings")
	}
}

func TestAntialiased_SolidRegionsNotAntialiased(t *testing.T) {
	// Left half black, right half white; an interior pixel of either half has
	// more than two identical-brightness neighbors, so it cannot be AA.
	w, h := 6, 6
	a := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			v := byte(0)
			if x >= 3 {
				v = 255
			}
			a[i], a[i+1], a[i+2], a[i+3] = v, v, v, 255
		}
	}
	if antialiased(a, a, 1, 1, w, h) {
		t.Error("interior pixel of a solid region must not be flagged as anti-aliased")
	}
}
