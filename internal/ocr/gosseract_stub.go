//go:build !gosseract

package ocr

import "fmt"

func newGosseract() (Engine, error) {
	return nil, fmt.Errorf("%w: built without the gosseract tag", ErrEngineMissing)
}
