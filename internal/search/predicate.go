// Package search builds and evaluates member-name predicates.
//
// A Predicate is a small expression tree over member fields. BuildNameQuery
// turns a free-text name into one; Match evaluates it against an in-memory
// record, and the repo package translates the same tree into SQL. Words in
// a predicate are always literal text: each interpreter escapes them for its
// own pattern language.
package search

import "strings"

// Field names a member attribute a predicate may test.
type Field string

const (
	FieldFirstName  Field = "first_name"
	FieldLastName   Field = "last_name"
	FieldName       Field = "name"
	FieldState      Field = "state"
	FieldParty      Field = "party"
	FieldChamber    Field = "chamber"
	FieldBioguideID Field = "bioguide_id"
)

// Anchor controls where the first word of a FieldPrefix must begin.
type Anchor int

const (
	// AnchorWord: at the start of any word (field start, or after
	// whitespace or a hyphen).
	AnchorWord Anchor = iota
	// AnchorStart: at the start of the field.
	AnchorStart
)

// Predicate is one of MatchAll, FieldPrefix, FieldExact, And, Or.
type Predicate interface {
	isPredicate()
}

// MatchAll selects every record.
type MatchAll struct{}

// FieldPrefix matches when each of Words is, case-insensitively, a prefix
// of a word in Field, in the given order. Later words start at word starts
// after the end of the previous one.
type FieldPrefix struct {
	Field  Field
	Words  []string
	Anchor Anchor
}

// FieldExact matches when Field equals Value, optionally case-folded.
type FieldExact struct {
	Field    Field
	Value    string
	FoldCase bool
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when any child matches. An empty Or matches nothing.
type Or []Predicate

func (MatchAll) isPredicate()    {}
func (FieldPrefix) isPredicate() {}
func (FieldExact) isPredicate()  {}
func (And) isPredicate()         {}
func (Or) isPredicate()          {}

// WordPrefix is shorthand for a word-anchored FieldPrefix.
func WordPrefix(f Field, words ...string) FieldPrefix {
	return FieldPrefix{Field: f, Words: words, Anchor: AnchorWord}
}

// AllOf ANDs ps, dropping MatchAll operands. It returns MatchAll when
// nothing is left and the sole operand when only one is.
func AllOf(ps ...Predicate) Predicate {
	out := make(And, 0, len(ps))
	for _, p := range ps {
		if p == nil || IsMatchAll(p) {
			continue
		}
		out = append(out, p)
	}
	switch len(out) {
	case 0:
		return MatchAll{}
	case 1:
		return out[0]
	}
	return out
}

// IsMatchAll reports whether p selects every record without testing a field.
func IsMatchAll(p Predicate) bool {
	switch v := p.(type) {
	case MatchAll:
		return true
	case And:
		for _, c := range v {
			if !IsMatchAll(c) {
				return false
			}
		}
		return true
	}
	return false
}

// Exact builds an exact filter for a non-empty value, or MatchAll when the
// value is blank.
func Exact(f Field, value string, fold bool) Predicate {
	if strings.TrimSpace(value) == "" {
		return MatchAll{}
	}
	return FieldExact{Field: f, Value: value, FoldCase: fold}
}
