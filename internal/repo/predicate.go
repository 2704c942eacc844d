package repo

import (
	"strings"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/search"
)

// predicateColumns is the allowlist of member columns a predicate may touch.
var predicateColumns = map[search.Field]string{
	search.FieldFirstName:  "first_name",
	search.FieldLastName:   "last_name",
	search.FieldName:       "name",
	search.FieldState:      "state",
	search.FieldParty:      "party",
	search.FieldChamber:    "chamber",
	search.FieldBioguideID: "bioguide_id",
}

// foldColumns hold Go-folded copies of the name columns. SQLite lower()
// only folds ASCII, so names are compared through these.
var foldColumns = map[search.Field]string{
	search.FieldFirstName: "first_name_fold",
	search.FieldLastName:  "last_name_fold",
	search.FieldName:      "name_fold",
}

const (
	sqlNone   = "1 = 0"
	likeEsc   = `ESCAPE '\'`
	likeMatch = "(' ' || replace(%s, '-', ' ')) LIKE ? " + likeEsc
)

// foldedColumn is the case-insensitive form of f's column: its folded copy
// when one is stored, lower(col) otherwise (ASCII-only fields).
func foldedColumn(f search.Field) (string, bool) {
	if col, ok := foldColumns[f]; ok {
		return col, true
	}
	col, ok := predicateColumns[f]
	if !ok {
		return "", false
	}
	return "lower(" + col + ")", true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereSQL translates p into a SQL condition with positional arguments.
// An empty condition means "no filter".
//
// Word-prefix matching is expressed as a LIKE over the case-folded column
// with hyphens folded to spaces and a leading space prepended, so every
// word start is " <word>". User text only ever reaches the query as an
// escaped bound argument.
func whereSQL(p search.Predicate) (string, []any) {
	switch v := p.(type) {
	case nil, search.MatchAll:
		return "", nil
	case search.FieldPrefix:
		col, ok := foldedColumn(v.Field)
		if !ok {
			return sqlNone, nil
		}
		if len(v.Words) == 0 {
			return "", nil
		}
		return strings.Replace(likeMatch, "%s", col, 1), []any{domain.FoldName(likePattern(v))}
	case search.FieldExact:
		if v.FoldCase {
			col, ok := foldedColumn(v.Field)
			if !ok {
				return sqlNone, nil
			}
			return col + " = ?", []any{domain.FoldName(v.Value)}
		}
		col, ok := predicateColumns[v.Field]
		if !ok {
			return sqlNone, nil
		}
		return col + " = ?", []any{v.Value}
	case search.And:
		return joinSQL([]search.Predicate(v), " AND ", "")
	case search.Or:
		if len(v) == 0 {
			return sqlNone, nil
		}
		return joinSQL([]search.Predicate(v), " OR ", sqlNone)
	}
	return sqlNone, nil
}

func joinSQL(children []search.Predicate, op, empty string) (string, []any) {
	var (
		parts []string
		args  []any
	)
	for _, c := range children {
		s, a := whereSQL(c)
		if s == "" {
			if op == " OR " {
				// One unconditional branch makes the disjunction unconditional.
				return "", nil
			}
			continue
		}
		parts = append(parts, s)
		args = append(args, a...)
	}
	switch len(parts) {
	case 0:
		return empty, nil
	case 1:
		return parts[0], args
	}
	return "(" + strings.Join(parts, op) + ")", args
}

// likePattern renders the words of p as a LIKE pattern against the
// " "-prefixed, hyphen-folded haystack.
func likePattern(p search.FieldPrefix) string {
	var b strings.Builder
	if p.Anchor == search.AnchorWord {
		b.WriteByte('%')
	}
	for i, w := range p.Words {
		if i > 0 {
			b.WriteByte('%')
		}
		b.WriteByte(' ')
		b.WriteString(likeEscaper.Replace(strings.ReplaceAll(w, "-", " ")))
	}
	b.WriteByte('%')
	return b.String()
}

// escapeLike escapes LIKE wildcards in free text.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
