//go:build gosseract

package ocr

import (
	"context"

	"github.com/otiai10/gosseract/v2"
)

// Gosseract recognizes text in-process through libtesseract.
type Gosseract struct{}

func newGosseract() (Engine, error) { return Gosseract{}, nil }

func (Gosseract) Name() string { return "gosseract" }

func (Gosseract) Recognize(ctx context.Context, path, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(lang); err != nil {
		return "", err
	}
	if err := client.SetImage(path); err != nil {
		return "", err
	}
	return client.Text()
}
