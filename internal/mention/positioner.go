package mention

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Font carries the font parameters the host control renders with.
type Font struct {
	Family       string  `json:"family"`
	SizePx       float64 `json:"sizePx"`
	LineHeightPx float64 `json:"lineHeightPx"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is relative to the host control's origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextMetrics measures a single-line run of text in the given font.
type TextMetrics interface {
	Measure(text string, font Font) Size
}

// Layout describes the host control's box. A WrapWidth of zero disables
// soft wrapping.
type Layout struct {
	WrapWidth   float64 `json:"wrapWidth"`
	PaddingLeft float64 `json:"paddingLeft"`
	PaddingTop  float64 `json:"paddingTop"`
	ScrollTop   float64 `json:"scrollTop"`
}

// Positioner computes where the suggestion popup is anchored.
type Positioner struct {
	metrics TextMetrics
	font    Font
	layout  Layout
}

func NewPositioner(metrics TextMetrics, font Font, layout Layout) *Positioner {
	return &Positioner{metrics: metrics, font: font, layout: layout}
}

// SetLayout updates the control box, e.g. after a resize or scroll.
func (p *Positioner) SetLayout(layout Layout) {
	p.layout = layout
}

// Locate returns the point just below the "@" at triggerOffset. The text up
// to the end of the word holding the trigger is laid out the way a pre-wrap
// text area does: hard breaks on newlines, greedy soft wraps on word
// boundaries, and character breaks for words wider than the control. A
// trigger past the end of the text is placed as if "@" were appended.
func (p *Positioner) Locate(text string, triggerOffset int) Point {
	runes := []rune(text)
	if triggerOffset < 0 {
		triggerOffset = 0
	}
	if triggerOffset >= len(runes) {
		triggerOffset = len(runes)
		runes = append(runes, '@')
	}

	end := triggerOffset
	for end < len(runes) && !unicode.IsSpace(runes[end]) {
		end++
	}

	lines := p.wrap(string(runes[:end]))
	row := len(lines) - 1
	for i, l := range lines {
		if triggerOffset < l.start+utf8.RuneCountInString(l.text) {
			row = i
			break
		}
	}
	line := lines[row]

	before := string([]rune(line.text)[:triggerOffset-line.start])
	return Point{
		X: p.layout.PaddingLeft + p.width(before),
		Y: p.layout.PaddingTop + float64(row+1)*p.lineHeight() - p.layout.ScrollTop,
	}
}

func (p *Positioner) lineHeight() float64 {
	if p.font.LineHeightPx > 0 {
		return p.font.LineHeightPx
	}
	return p.metrics.Measure("M", p.font).Height
}

func (p *Positioner) width(s string) float64 {
	if s == "" {
		return 0
	}
	return p.metrics.Measure(s, p.font).Width
}

// layoutLine is one visual line and the rune offset it starts at.
type layoutLine struct {
	text  string
	start int
}

// wrap always returns at least one line.
func (p *Positioner) wrap(text string) []layoutLine {
	var lines []layoutLine
	offset := 0
	for _, paragraph := range strings.Split(text, "\n") {
		for _, l := range p.wrapParagraph(paragraph) {
			lines = append(lines, layoutLine{text: l, start: offset})
			offset += utf8.RuneCountInString(l)
		}
		offset++ // the newline
	}
	return lines
}

func (p *Positioner) wrapParagraph(paragraph string) []string {
	if p.layout.WrapWidth <= 0 {
		return []string{paragraph}
	}

	var lines []string
	line := ""
	for _, word := range splitWords(paragraph) {
		visible := strings.TrimRightFunc(word, unicode.IsSpace)
		if line != "" && p.width(line+visible) > p.layout.WrapWidth {
			lines = append(lines, line)
			line = ""
		}
		if line == "" && p.width(visible) > p.layout.WrapWidth {
			broken := p.breakWord(word)
			lines = append(lines, broken[:len(broken)-1]...)
			line = broken[len(broken)-1]
			continue
		}
		line += word
	}
	return append(lines, line)
}

// breakWord splits a word that cannot fit on one line at rune boundaries.
func (p *Positioner) breakWord(word string) []string {
	var parts []string
	current := ""
	for _, r := range word {
		next := current + string(r)
		if current != "" && !unicode.IsSpace(r) && p.width(next) > p.layout.WrapWidth {
			parts = append(parts, current)
			next = string(r)
		}
		current = next
	}
	return append(parts, current)
}

// splitWords cuts s into words that keep their trailing whitespace.
func splitWords(s string) []string {
	var words []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if inSpace && !space {
			words = append(words, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
