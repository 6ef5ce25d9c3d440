package mention

import (
	"strings"
	"unicode"
)

// DefaultClientPrefix is the first character after "@" that switches a query
// to the client namespace. Developer usernames starting with the same letter
// are classified as clients too; hosts that need both use WithClientPrefix
// with a character that cannot start a username, such as "#".
const DefaultClientPrefix = "c"

// Detector finds the active mention query for a text buffer and caret.
type Detector struct {
	clientPrefix string
}

type DetectorOption func(*Detector)

// WithClientPrefix overrides DefaultClientPrefix. An empty prefix disables
// the client namespace entirely.
func WithClientPrefix(prefix string) DetectorOption {
	return func(d *Detector) {
		d.clientPrefix = prefix
	}
}

func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{clientPrefix: DefaultClientPrefix}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ClientPrefix returns the configured client prefix.
func (d *Detector) ClientPrefix() string {
	return d.clientPrefix
}

// Detect returns the query whose "@" is the nearest one before caret with no
// whitespace in between, or nil when the caret is not inside such a run.
func (d *Detector) Detect(text string, caret int) *Query {
	runes := []rune(text)
	if caret < 0 || caret > len(runes) {
		return nil
	}

	for i := caret - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsSpace(r) {
			return nil
		}
		if r != '@' {
			continue
		}

		partial := string(runes[i+1 : caret])
		kind, term := d.classify(partial)
		return &Query{
			TriggerOffset: i,
			PartialToken:  partial,
			Kind:          kind,
			SearchTerm:    term,
		}
	}
	return nil
}

func (d *Detector) classify(partial string) (Kind, string) {
	if d.clientPrefix == "" {
		return KindUser, partial
	}
	if !strings.HasPrefix(strings.ToLower(partial), strings.ToLower(d.clientPrefix)) {
		return KindUser, partial
	}
	n := len([]rune(d.clientPrefix))
	return KindClient, string([]rune(partial)[n:])
}
