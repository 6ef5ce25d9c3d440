// Package mention implements the "@" mention subsystem of the task comment
// composer: detecting an in-progress mention at the caret, filtering the
// developer and client candidate pools, anchoring the suggestion popup,
// inserting a chosen candidate and rendering stored comments as segments.
//
// Offsets are counted in runes. Nothing in this package performs I/O.
package mention

import "errors"

// Kind is the namespace a mention belongs to.
type Kind string

const (
	KindUser   Kind = "USER"
	KindClient Kind = "CLIENT"
)

// Valid reports whether k is one of the known namespaces.
func (k Kind) Valid() bool {
	return k == KindUser || k == KindClient
}

var (
	ErrInvalidState = errors.New("mention: no active mention query")
	ErrEmptyContent = errors.New("mention: comment content is empty")
	ErrUnknownKind  = errors.New("mention: unknown mention kind")
)

// Candidate is a mentionable developer or client. DisplayToken is the exact
// text inserted after "@".
type Candidate struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"kind"`
	DisplayToken string `json:"displayToken"`
}

// Query describes the unterminated "@token" run the caret currently sits in.
type Query struct {
	TriggerOffset int    `json:"triggerOffset"`
	PartialToken  string `json:"partialToken"`
	Kind          Kind   `json:"kind"`
	// SearchTerm is PartialToken without the client prefix for CLIENT queries.
	SearchTerm string `json:"searchTerm"`
}
