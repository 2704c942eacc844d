package search

import "strings"

// NormalizeQuery trims s and collapses every whitespace run to one space.
func NormalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// BuildNameQuery turns a human-entered name into a predicate over first,
// last and full name. It is order-insensitive for two words and tolerant of
// partial words; blank input yields MatchAll. It never fails.
//
//	1 word   first, last or full name has a word starting with it
//	2 words  (A first, B last) or (B first, A last) or full name has A..B or B..A
//	3+ words full name has all words in order, first/last word as first/last
//	         name in either order, and for exactly 3 words the compound
//	         first-name and compound last-name splits
//
// A hyphen starts a word just as whitespace does, so "cortez" finds
// "Ocasio-Cortez" and "luc" finds "Jean-Luc". Query hyphens are word
// breaks too. Apostrophes and other punctuation do not start a word:
// "brien" does not find "O'Brien".
func BuildNameQuery(raw string) Predicate {
	words := strings.Fields(raw)
	switch len(words) {
	case 0:
		return MatchAll{}
	case 1:
		w := words[0]
		return Or{
			WordPrefix(FieldFirstName, w),
			WordPrefix(FieldLastName, w),
			WordPrefix(FieldName, w),
		}
	case 2:
		a, b := words[0], words[1]
		return Or{
			And{WordPrefix(FieldFirstName, a), WordPrefix(FieldLastName, b)},
			And{WordPrefix(FieldFirstName, b), WordPrefix(FieldLastName, a)},
			Or{WordPrefix(FieldName, a, b), WordPrefix(FieldName, b, a)},
		}
	}

	first, last := words[0], words[len(words)-1]
	alts := Or{
		WordPrefix(FieldName, words...),
		And{WordPrefix(FieldFirstName, first), WordPrefix(FieldLastName, last)},
		And{WordPrefix(FieldFirstName, last), WordPrefix(FieldLastName, first)},
	}
	if len(words) == 3 {
		alts = append(alts,
			And{WordPrefix(FieldFirstName, words[0], words[1]), WordPrefix(FieldLastName, words[2])},
			And{WordPrefix(FieldFirstName, words[0]), WordPrefix(FieldLastName, words[1], words[2])},
		)
	}
	return alts
}
