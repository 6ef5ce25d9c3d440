package mention

import "strings"

type SegmentType string

const (
	SegmentText    SegmentType = "text"
	SegmentMention SegmentType = "mention"
)

// Segment is one run of a rendered comment. Text segments hold raw comment
// text that the host must escape when drawing; mention segments hold the
// mentioned display name without the "@".
type Segment struct {
	Type SegmentType `json:"type"`
	Text string      `json:"text"`
	Kind Kind        `json:"kind,omitempty"`
}

func TextSegment(text string) Segment {
	return Segment{Type: SegmentText, Text: text}
}

func MentionSegment(name string, kind Kind) Segment {
	return Segment{Type: SegmentMention, Text: name, Kind: kind}
}

// Render splits content into plain text and mention segments. Every literal
// occurrence of "@"+name is a mention; usernames are processed before client
// names, so on overlapping names the user span wins. Names with no literal
// occurrence produce nothing. Content is never interpreted as markup.
func Render(content string, mentionedUsernames, mentionedClientNames []string) []Segment {
	if len(mentionedUsernames) == 0 && len(mentionedClientNames) == 0 {
		return []Segment{TextSegment(content)}
	}

	segments := []Segment{TextSegment(content)}
	for _, name := range mentionedUsernames {
		segments = splitMentions(segments, name, KindUser)
	}
	for _, name := range mentionedClientNames {
		segments = splitMentions(segments, name, KindClient)
	}
	return segments
}

// splitMentions only cuts text segments; empty text runs are dropped.
func splitMentions(segments []Segment, name string, kind Kind) []Segment {
	if name == "" {
		return segments
	}
	token := "@" + name

	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Type != SegmentText {
			out = append(out, seg)
			continue
		}

		rest := seg.Text
		for {
			i := strings.Index(rest, token)
			if i < 0 {
				break
			}
			if i > 0 {
				out = append(out, TextSegment(rest[:i]))
			}
			out = append(out, MentionSegment(name, kind))
			rest = rest[i+len(token):]
		}
		if rest != "" {
			out = append(out, TextSegment(rest))
		}
	}
	return out
}

// PlainText joins segments back into display text, restoring the "@".
func PlainText(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.Type == SegmentMention {
			b.WriteString("@")
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
