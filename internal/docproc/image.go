package docproc

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"veridoc/internal/model"
)

// maxImageEdge bounds the longer edge of an inline-uploaded image. Larger
// images are downscaled before they ever reach a completion request.
const maxImageEdge = 1024

func parseImage(path string) (*ParsedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data := raw
	if width > maxImageEdge || height > maxImageEdge {
		data, format, err = downscale(img, format, width, height)
		if err != nil {
			return nil, fmt.Errorf("downscale image: %w", err)
		}
	}

	return &ParsedDocument{
		Type: "image",
		Images: []model.EmbeddedImage{{
			Data:   data,
			Format: format,
			Width:  width,
			Height: height,
		}},
		Metadata: map[string]any{
			"width":  width,
			"height": height,
			"format": format,
		},
	}, nil
}

// downscale resizes to fit maxImageEdge, preserving aspect ratio. GIFs are
// re-encoded as PNG since animation is irrelevant for classification.
func downscale(img image.Image, format string, width, height int) ([]byte, string, error) {
	scale := float64(maxImageEdge) / float64(width)
	if height > width {
		scale = float64(maxImageEdge) / float64(height)
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "jpeg", nil
	default:
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "png", nil
	}
}
