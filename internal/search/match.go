package search

import (
	"regexp"
	"strings"
	"sync"
)

// Record exposes field values to Match.
type Record interface {
	FieldValue(field string) string
}

// Match evaluates p against r.
func Match(p Predicate, r Record) bool {
	switch v := p.(type) {
	case nil, MatchAll:
		return true
	case FieldPrefix:
		if len(v.Words) == 0 {
			return true
		}
		return prefixRegexp(v).MatchString(r.FieldValue(string(v.Field)))
	case FieldExact:
		got := r.FieldValue(string(v.Field))
		if v.FoldCase {
			return strings.EqualFold(got, v.Value)
		}
		return got == v.Value
	case And:
		for _, c := range v {
			if !Match(c, r) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range v {
			if Match(c, r) {
				return true
			}
		}
		return false
	}
	return false
}

// wordSep is the class of characters after which a name word starts.
const wordSep = `[\s-]`

var reCache sync.Map // pattern -> *regexp.Regexp

// PrefixPattern renders a FieldPrefix as a case-insensitive regular
// expression. Words are quoted; a hyphen inside a word matches either a
// hyphen or whitespace so "Ocasio-Cortez" and "Ocasio Cortez" agree.
func PrefixPattern(p FieldPrefix) string {
	var b strings.Builder
	b.WriteString(`(?is)`)
	for i, w := range p.Words {
		switch {
		case i > 0:
			b.WriteString(`.*` + wordSep)
		case p.Anchor == AnchorStart:
			b.WriteString(`^`)
		default:
			b.WriteString(`(?:^|` + wordSep + `)`)
		}
		parts := strings.Split(w, "-")
		for j, part := range parts {
			if j > 0 {
				b.WriteString(wordSep)
			}
			b.WriteString(regexp.QuoteMeta(part))
		}
	}
	return b.String()
}

func prefixRegexp(p FieldPrefix) *regexp.Regexp {
	pat := PrefixPattern(p)
	if re, ok := reCache.Load(pat); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(pat)
	reCache.Store(pat, re)
	return re
}
