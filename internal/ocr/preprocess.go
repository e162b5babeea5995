package ocr

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// upscaleBelow is the width under which images are enlarged before
// recognition. Tesseract does poorly on small UI text.
const upscaleBelow = 1000

// prepare converts img to grayscale and doubles small images.
func prepare(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	if w := gray.Bounds().Dx(); w < upscaleBelow {
		return imaging.Resize(gray, w*2, 0, imaging.Lanczos)
	}
	return gray
}

// Preprocess writes a recognition-friendly copy of the image at path and
// returns its location. The caller removes it.
func Preprocess(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	f, err := os.CreateTemp("", "textassist-ocr-*.png")
	if err != nil {
		return "", err
	}
	out := f.Name()
	_ = f.Close()
	if err := imaging.Save(prepare(img), out); err != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("save %s: %w", out, err)
	}
	return out, nil
}
