package mention

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// FixedMetrics advances every rune by the same width. A zero Advance uses
// 0.6em of the font size.
type FixedMetrics struct {
	Advance float64
}

func (m FixedMetrics) Measure(text string, font Font) Size {
	advance := m.Advance
	if advance <= 0 {
		advance = font.SizePx * 0.6
	}
	height := font.LineHeightPx
	if height <= 0 {
		height = font.SizePx * 1.2
	}
	return Size{
		Width:  float64(utf8.RuneCountInString(text)) * advance,
		Height: height,
	}
}

// ColumnMetrics measures text in terminal cells; wide runes take two
// columns and every line is one row high. The font is ignored.
type ColumnMetrics struct{}

func (ColumnMetrics) Measure(text string, _ Font) Size {
	return Size{Width: float64(runewidth.StringWidth(text)), Height: 1}
}
