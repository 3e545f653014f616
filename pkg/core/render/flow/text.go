package flow

import (
	"strings"
	"unicode/utf8"

	"github.com/fogleman/gg"

	"github.com/matzehuels/adaptiveflow/pkg/fonts"
)

// TextMeasurer reports the rendered size of a single line of text.
// *gg.Context satisfies it.
type TextMeasurer interface {
	MeasureString(s string) (w, h float64)
}

// DefaultFontSize is the body text size of node labels.
const DefaultFontSize = 12

const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.3
)

// approxMeasurer estimates text width from the character count.
type approxMeasurer struct{ size float64 }

func (m approxMeasurer) MeasureString(s string) (float64, float64) {
	return float64(utf8.RuneCountInString(s)) * m.size * charWidthRatio, m.size
}

// ApproxMeasurer returns a measurer that needs no font data.
func ApproxMeasurer(size float64) TextMeasurer {
	if size <= 0 {
		size = DefaultFontSize
	}
	return approxMeasurer{size: size}
}

// NewFontMeasurer returns a measurer backed by the embedded font at the given
// size. The returned value is not safe for concurrent use.
func NewFontMeasurer(size float64) (TextMeasurer, error) {
	face, err := fonts.Face(size, false)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return dc, nil
}

// wrap breaks text into lines no wider than width. Words wider than a line
// are kept whole. At most maxLines lines are returned; a cut-off last line
// ends in "..". maxLines <= 0 means no limit.
func wrap(tm TextMeasurer, text string, width float64, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if tw, _ := tm.MeasureString(cur + " " + w); tw <= width {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	lines = append(lines, cur)

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(tm, lines[maxLines-1], width)
	}
	return lines
}

func ellipsize(tm TextMeasurer, line string, width float64) string {
	r := []rune(line)
	for len(r) > 0 {
		s := string(r) + ".."
		if w, _ := tm.MeasureString(s); w <= width {
			return s
		}
		r = r[:len(r)-1]
	}
	return ".."
}
