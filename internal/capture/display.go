package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/kbinani/screenshot"
)

var errNoDisplay = errors.New("no active display")

// captureDisplay grabs the first display in-process and writes it to path.
func captureDisplay(path string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("read display: %v", rec)
		}
	}()
	if screenshot.NumActiveDisplays() == 0 {
		return errNoDisplay
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return fmt.Errorf("read display: %w", err)
	}
	return save(img, path)
}

func save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
