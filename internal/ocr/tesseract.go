package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Tesseract runs the tesseract command-line program.
type Tesseract struct {
	Bin     string
	Timeout time.Duration
}

// NewTesseract returns an engine using tesseract from PATH.
func NewTesseract() *Tesseract {
	return &Tesseract{Bin: "tesseract", Timeout: 60 * time.Second}
}

func (t *Tesseract) Name() string { return "tesseract" }

func (t *Tesseract) Recognize(ctx context.Context, path, lang string) (string, error) {
	bin, err := exec.LookPath(t.Bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s not installed", ErrEngineMissing, t.Bin)
	}
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, path, "stdout", "-l", lang)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("timed out after %s", t.Timeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
