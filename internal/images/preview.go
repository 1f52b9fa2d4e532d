// Package images post-processes generated illustrations into lighter
// preview renditions for feed views.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// PreviewWidth is the pixel width of feed preview images. Height follows the
// source aspect ratio.
const PreviewWidth = 480

const previewQuality = 70

// GeneratePreview decodes the source image, scales it down to PreviewWidth,
// and re-encodes it as lossy WebP. Sources already narrower than
// PreviewWidth are re-encoded without scaling.
func GeneratePreview(source []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > PreviewWidth {
		height := bounds.Dy() * PreviewWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, PreviewWidth, height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
