package imaging

import "fmt"

// Resample scales a raster to the target size with nearest-neighbor
// sampling: each destination pixel copies all four channels of the source
// pixel at floor(dst*srcDim/dstDim). When the target matches the source the
// raster is returned unchanged.
func Resample(r *Raster, width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("resample to invalid size %dx%d", width, height)
	}
	if r.Width == width && r.Height == height {
		return r, nil
	}

	dst := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		srcY := y * r.Height / height
		srcRow := srcY * r.Width
		dstRow := y * width
		for x := 0; x < width; x++ {
			srcX := x * r.Width / width
			si := (srcRow + srcX) * 4
			di := (dstRow + x) * 4
			copy(dst[di:di+4], r.Pix[si:si+4])
		}
	}
	return &Raster{Width: width, Height: height, Pix: dst}, nil
}

// CompareSize is the component-wise minimum of the inputs, the largest area
// both rasters (and the declared frame) can cover without reading out of
// bounds.
func CompareSize(widths, heights []int) (int, int) {
	w, h := widths[0], heights[0]
	for _, v := range widths[1:] {
		if v > 0 && v < w {
			w = v
		}
	}
	for _, v := range heights[1:] {
		if v > 0 && v < h {
			h = v
		}
	}
	return w, h
}
