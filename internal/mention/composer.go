package mention

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultPopupLimit caps the number of candidates shown in the popup.
const DefaultPopupLimit = 8

// State is the observable composer state a host renders from. Visible is
// true only when a query is active and at least one candidate matches it.
type State struct {
	Text            string      `json:"text"`
	Caret           int         `json:"caret"`
	MentionQuery    *Query      `json:"mentionQuery"`
	Visible         bool        `json:"visible"`
	PopupCandidates []Candidate `json:"popupCandidates"`
	PopupPosition   Point       `json:"popupPosition"`
}

// Edit is the text and caret the host applies to its input control after an
// insertion.
type Edit struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// Submission is what gets handed to the comment store.
type Submission struct {
	Content            string   `json:"content"`
	MentionedUserIDs   []string `json:"mentionedUserIds"`
	MentionedClientIDs []string `json:"mentionedClientIds"`
}

// Composer owns the text of one comment form. It is not safe for concurrent
// use; the host serializes input events.
type Composer struct {
	index      *Index
	detector   *Detector
	positioner *Positioner
	popupLimit int
	lenient    bool
	log        zerolog.Logger

	text       string
	caret      int
	query      *Query
	candidates []Candidate
	position   Point
	selected   map[Kind]*idSet
}

type Option func(*Composer)

func WithIndex(index *Index) Option {
	return func(c *Composer) { c.index = index }
}

func WithDetector(detector *Detector) Option {
	return func(c *Composer) { c.detector = detector }
}

func WithPositioner(positioner *Positioner) Option {
	return func(c *Composer) { c.positioner = positioner }
}

// WithPopupLimit caps the popup; a limit <= 0 shows every match.
func WithPopupLimit(limit int) Option {
	return func(c *Composer) { c.popupLimit = limit }
}

// WithLenient makes SelectCandidate without an active query a logged no-op
// instead of an ErrInvalidState failure.
func WithLenient(log zerolog.Logger) Option {
	return func(c *Composer) {
		c.lenient = true
		c.log = log
	}
}

func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		index:      NewIndex(),
		detector:   NewDetector(),
		positioner: NewPositioner(FixedMetrics{}, Font{SizePx: 14, LineHeightPx: 20}, Layout{}),
		popupLimit: DefaultPopupLimit,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.selected = newSelection()
	return c
}

// SetPool refreshes a candidate pool and re-filters an open popup.
func (c *Composer) SetPool(kind Kind, candidates []Candidate) {
	c.index.SetPool(kind, candidates)
	if c.query != nil {
		c.refreshPopup()
	}
}

// Index exposes the candidate pools.
func (c *Composer) Index() *Index {
	return c.index
}

// OnTextChange records the host control's text and caret and recomputes the
// active query. A caret outside the text is clamped.
func (c *Composer) OnTextChange(text string, caret int) State {
	c.text = text
	c.caret = clamp(caret, 0, utf8.RuneCountInString(text))
	c.query = c.detector.Detect(c.text, c.caret)
	c.refreshPopup()
	return c.State()
}

func (c *Composer) refreshPopup() {
	c.candidates = nil
	c.position = Point{}
	if c.query == nil {
		return
	}

	matches := c.index.Filter(c.query.Kind, c.query.SearchTerm)
	if c.popupLimit > 0 && len(matches) > c.popupLimit {
		matches = matches[:c.popupLimit]
	}
	c.candidates = matches
	c.position = c.positioner.Locate(c.text, c.query.TriggerOffset)
}

// SelectCandidate replaces the active "@partial" run with "@token " and
// records the candidate id for submission.
func (c *Composer) SelectCandidate(candidate Candidate) (Edit, error) {
	if c.query == nil {
		if c.lenient {
			c.log.Warn().
				Str("candidate", candidate.ID).
				Msg("mention selected with no active query, ignoring")
			return Edit{Text: c.text, Caret: c.caret}, nil
		}
		return Edit{}, ErrInvalidState
	}
	if !candidate.Kind.Valid() {
		return Edit{}, fmt.Errorf("%w: %q", ErrUnknownKind, candidate.Kind)
	}

	runes := []rune(c.text)
	insert := "@" + candidate.DisplayToken + " "

	var b strings.Builder
	b.WriteString(string(runes[:c.query.TriggerOffset]))
	b.WriteString(insert)
	b.WriteString(string(runes[c.caret:]))

	c.text = b.String()
	c.caret = c.query.TriggerOffset + utf8.RuneCountInString(insert)
	c.selected[candidate.Kind].add(candidate.ID)

	c.query = nil
	c.candidates = nil
	c.position = Point{}

	return Edit{Text: c.text, Caret: c.caret}, nil
}

// Reset clears the buffer, the active query and the selected mentions.
func (c *Composer) Reset() {
	c.text = ""
	c.caret = 0
	c.query = nil
	c.candidates = nil
	c.position = Point{}
	c.selected = newSelection()
}

// Submission returns the trimmed content with the selected mention ids.
// Ids stay selected even if their token was later deleted from the text.
func (c *Composer) Submission() (Submission, error) {
	content := strings.TrimSpace(c.text)
	if content == "" {
		return Submission{}, ErrEmptyContent
	}
	return Submission{
		Content:            content,
		MentionedUserIDs:   c.selected[KindUser].list(),
		MentionedClientIDs: c.selected[KindClient].list(),
	}, nil
}

func (c *Composer) State() State {
	s := State{
		Text:            c.text,
		Caret:           c.caret,
		PopupCandidates: []Candidate{},
		PopupPosition:   c.position,
	}
	if c.query != nil {
		q := *c.query
		s.MentionQuery = &q
		s.PopupCandidates = append(s.PopupCandidates, c.candidates...)
		s.Visible = len(c.candidates) > 0
	}
	return s
}

// idSet keeps ids in first-insertion order.
type idSet struct {
	order []string
	seen  map[string]struct{}
}

func newSelection() map[Kind]*idSet {
	return map[Kind]*idSet{
		KindUser:   {seen: make(map[string]struct{})},
		KindClient: {seen: make(map[string]struct{})},
	}
}

func (s *idSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *idSet) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
