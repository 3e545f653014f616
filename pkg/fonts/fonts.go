// Package fonts provides the fonts used for text measurement and raster
// output.
//
// The Go font family ships inside golang.org/x/image, so the binary needs no
// font files at runtime. SVG output references the family by name and embeds
// the regular face as a data URL.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the regular face as TrueType data.
func RegularTTF() []byte { return goregular.TTF }

// BoldTTF returns the bold face as TrueType data.
func BoldTTF() []byte { return gobold.TTF }

var (
	parseOnce     sync.Once
	regular, bold *truetype.Font
	parseErr      error
)

func parse() error {
	parseOnce.Do(func() {
		if regular, parseErr = truetype.Parse(goregular.TTF); parseErr != nil {
			return
		}
		bold, parseErr = truetype.Parse(gobold.TTF)
	})
	return parseErr
}

// Face returns a font face of the given point size at 72 DPI.
func Face(size float64, isBold bool) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %g", size)
	}
	if err := parse(); err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}
	f := regular
	if isBold {
		f = bold
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// Cache for the base64-encoded regular face.
var (
	regularBase64     string
	regularBase64Once sync.Once
)

// RegularBase64 returns the regular face as a base64 string, computed once.
func RegularBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for renderers that ignore the embedded
// face.
const FallbackFontFamily = `'Go', 'Segoe UI', 'Helvetica Neue', Arial, sans-serif`
