// Package render holds conversions shared by the output sinks.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Converter is the external SVG converter.
const Converter = "rsvg-convert"

// ErrNoConverter is returned when rsvg-convert is not on PATH.
var ErrNoConverter = errors.New("pdf export requires librsvg (macOS: brew install librsvg, Linux: apt install librsvg2-bin)")

// ToPDF converts SVG bytes to PDF with rsvg-convert. The process is killed
// when ctx is cancelled.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	if _, err := exec.LookPath(Converter); err != nil {
		return nil, ErrNoConverter
	}

	cmd := exec.CommandContext(ctx, Converter, "-f", "pdf")
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %v: %s", Converter, err, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
