package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"

	xdraw "golang.org/x/image/draw"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// Raster is a decoded RGBA pixel buffer. Pix is always exactly
// Width*Height*4 bytes, row-major, 4 bytes per pixel.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// DecodeBase64Payload strips an optional data:image/...;base64, prefix and
// decodes the base64 layer of an inline screenshot payload.
func DecodeBase64Payload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx >= 0 {
			s = s[idx+1:]
		}
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return b, nil
}

// DecodeCaptured decodes a captured screenshot. The leading two bytes select
// the codec: a JPEG start-of-image marker decodes as JPEG, anything else is
// treated as PNG. A missing PNG signature is logged but decoding is still
// attempted; malformed input only fails when the codec rejects it.
func DecodeCaptured(data []byte, logger *slog.Logger) (*Raster, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(data) < 2 {
		return nil, decodeError("captured image", data, fmt.Errorf("buffer too short"))
	}

	var (
		img image.Image
		err error
	)
	if data[0] == 0xFF && data[1] == 0xD8 {
		img, err = jpeg.Decode(bytes.NewReader(data))
	} else {
		if !bytes.HasPrefix(data, pngSignature) {
			logger.Warn("captured image missing PNG signature, attempting decode anyway",
				"len", len(data), "prefix", bufferPrefix(data))
		}
		img, err = png.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, decodeError("captured image", data, err)
	}
	return toRaster(img)
}

// DecodeReference decodes a design render, which is always PNG.
func DecodeReference(data []byte) (*Raster, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError("reference image", data, err)
	}
	return toRaster(img)
}

// EncodePNG serializes a raster back to PNG bytes.
func EncodePNG(r *Raster) ([]byte, error) {
	img := &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func toRaster(img image.Image) (*Raster, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)

	r := &Raster{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
	if len(r.Pix) != r.Width*r.Height*4 {
		return nil, fmt.Errorf("raster buffer mismatch: %dx%d with %d bytes", r.Width, r.Height, len(r.Pix))
	}
	return r, nil
}

func decodeError(what string, data []byte, err error) error {
	return fmt.Errorf("decode %s (%d bytes, prefix % x): %w", what, len(data), bufferPrefix(data), err)
}

func bufferPrefix(data []byte) []byte {
	if len(data) > 8 {
		return data[:8]
	}
	return data
}
