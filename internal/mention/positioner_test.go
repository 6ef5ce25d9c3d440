package mention

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedPositioner(layout Layout) *Positioner {
	return NewPositioner(FixedMetrics{Advance: 10}, Font{SizePx: 16, LineHeightPx: 20}, layout)
}

func TestLocate_SingleLine(t *testing.T) {
	p := fixedPositioner(Layout{})
	require.Equal(t, Point{X: 60, Y: 20}, p.Locate("hello @bob", 6))
	require.Equal(t, Point{X: 0, Y: 20}, p.Locate("@bob", 0))
}

func TestLocate_HardBreaks(t *testing.T) {
	p := fixedPositioner(Layout{})
	require.Equal(t, Point{X: 30, Y: 40}, p.Locate("ab\ncd @x", 6))
	require.Equal(t, Point{X: 0, Y: 60}, p.Locate("a\n\n@x", 3))
}

func TestLocate_SoftWrapOnWords(t *testing.T) {
	p := fixedPositioner(Layout{WrapWidth: 100})
	require.Equal(t, Point{X: 50, Y: 40}, p.Locate("aaaa bbbb cccc @x", 15))
}

func TestLocate_TriggerPushedToNextLine(t *testing.T) {
	p := fixedPositioner(Layout{WrapWidth: 50})
	require.Equal(t, Point{X: 0, Y: 40}, p.Locate("abcde@x", 5))
}

func TestLocate_LongWordBreaks(t *testing.T) {
	p := fixedPositioner(Layout{WrapWidth: 30})
	require.Equal(t, Point{X: 20, Y: 60}, p.Locate("abcdefg @", 8))
}

func TestLocate_PaddingAndScroll(t *testing.T) {
	p := fixedPositioner(Layout{PaddingLeft: 4, PaddingTop: 2, ScrollTop: 20})
	require.Equal(t, Point{X: 34, Y: 2}, p.Locate("hi @", 3))

	p.SetLayout(Layout{})
	require.Equal(t, Point{X: 30, Y: 20}, p.Locate("hi @", 3))
}

func TestLocate_ClampsTrigger(t *testing.T) {
	p := fixedPositioner(Layout{})
	require.Equal(t, Point{X: 20, Y: 20}, p.Locate("hi", 10))
	require.Equal(t, Point{X: 0, Y: 20}, p.Locate("hi", -3))
}

func TestLocate_TerminalColumns(t *testing.T) {
	p := NewPositioner(ColumnMetrics{}, Font{}, Layout{})
	require.Equal(t, Point{X: 5, Y: 1}, p.Locate("日本 @x", 3))
}

func TestFixedMetrics_Defaults(t *testing.T) {
	size := FixedMetrics{}.Measure("abcde", Font{SizePx: 10})
	require.InDelta(t, 30.0, size.Width, 1e-9)
	require.InDelta(t, 12.0, size.Height, 1e-9)
}

func TestLocate_MentionWordWrapsAsAWhole(t *testing.T) {
	p := NewPositioner(FixedMetrics{Advance: 1}, Font{LineHeightPx: 1}, Layout{WrapWidth: 10})

	require.Equal(t, Point{X: 0, Y: 2}, p.Locate("aaaaaaa @bob", 8))
	require.Equal(t, Point{X: 2, Y: 2}, p.Locate("aaaaaa bb@bob", 9))
	// the word still fits, so the trigger stays on the first line
	require.Equal(t, Point{X: 8, Y: 1}, p.Locate("aaaaaaa @b", 8))
}

func TestLocate_TextAfterMentionWordIgnored(t *testing.T) {
	p := NewPositioner(FixedMetrics{Advance: 1}, Font{LineHeightPx: 1}, Layout{WrapWidth: 10})
	require.Equal(t, Point{X: 3, Y: 1}, p.Locate("hi @al and a long tail", 3))
}
