package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"

	// register decoders for every format a source may serve
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Yui007/MangaForge/pkg/config"
)

// ImageProcessor normalizes downloaded pages before they enter an
// archive: decode whatever the source served, optionally convert to
// grayscale, optionally cap dimensions, and re-encode as baseline JPEG.
type ImageProcessor struct {
	grayscale bool
	quality   int
	maxWidth  int
	maxHeight int
}

func NewImageProcessor(cfg *config.Config) *ImageProcessor {
	return &ImageProcessor{
		grayscale: cfg.Output.Grayscale,
		quality:   cfg.Output.ImageQuality,
		maxWidth:  cfg.Output.MaxWidth,
		maxHeight: cfg.Output.MaxHeight,
	}
}

// ProcessFile reads one image file and returns JPEG bytes plus the
// final pixel dimensions.
func (p *ImageProcessor) ProcessFile(path string) ([]byte, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding image: %w", err)
	}

	img = p.process(img)
	raw, err := p.encode(img)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	return raw, bounds.Dx(), bounds.Dy(), nil
}

func (p *ImageProcessor) process(img image.Image) image.Image {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()

	if newWidth, newHeight := p.fitDimensions(width, height); newWidth != width || newHeight != height {
		img = resize(img, newWidth, newHeight)
	}
	if p.grayscale {
		img = toGrayscale(img)
	}
	return img
}

// fitDimensions scales width/height down to the configured caps while
// keeping the aspect ratio. A cap of zero is ignored.
func (p *ImageProcessor) fitDimensions(width, height int) (int, int) {
	scale := 1.0
	if p.maxWidth > 0 && width > p.maxWidth {
		scale = float64(p.maxWidth) / float64(width)
	}
	if p.maxHeight > 0 && height > p.maxHeight {
		if s := float64(p.maxHeight) / float64(height); s < scale {
			scale = s
		}
	}
	if scale == 1.0 {
		return width, height
	}
	return int(float64(width) * scale), int(float64(height) * scale)
}

// resize uses CatmullRom for high-quality downscaling.
func resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func toGrayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray
}

func (p *ImageProcessor) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
