// Package ocr extracts text from screenshots.
//
// The default engine runs the tesseract binary. Building with the gosseract
// tag links libtesseract through gosseract instead.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLanguage is the tesseract language used when none is configured.
const DefaultLanguage = "eng"

var (
	// ErrNoText is returned when recognition succeeds but finds nothing.
	ErrNoText = errors.New("no text found in image")
	// ErrUnsupported is returned for files that are not a known image type.
	ErrUnsupported = errors.New("unsupported image type")
	// ErrEngineMissing is returned when the OCR engine is not installed.
	ErrEngineMissing = errors.New("ocr engine not available")
)

var extensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".tiff": true, ".bmp": true, ".gif": true,
}

// Supported reports whether path has an extension the engines accept.
func Supported(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Engine recognizes text in an image file.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, path, lang string) (string, error)
}

// New returns the engine called name: "tesseract" or, in builds with the
// gosseract tag, "gosseract".
func New(name string) (Engine, error) {
	switch name {
	case "", "tesseract":
		return NewTesseract(), nil
	case "gosseract":
		return newGosseract()
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", name)
	}
}

// Options control Extract.
type Options struct {
	Language   string
	Preprocess bool
}

// Extract runs engine on the image at path and returns the trimmed text.
func Extract(ctx context.Context, engine Engine, path string, opts Options) (string, error) {
	if !Supported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	src := path
	if opts.Preprocess {
		prepared, err := Preprocess(path)
		if err != nil {
			return "", err
		}
		defer os.Remove(prepared)
		src = prepared
	}

	text, err := engine.Recognize(ctx, src, opts.Language)
	if err != nil {
		return "", fmt.Errorf("%s: %w", engine.Name(), err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	slog.Debug("ocr finished", "engine", engine.Name(), "chars", len(text))
	return text, nil
}
