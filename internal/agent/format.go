package agent

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/services"
)

var titleCaser = cases.Title(language.English)

func chamberName(ch domain.Chamber) string {
	return titleCaser.String(string(ch))
}

// memberTag renders "(R-UT)" or "(D-NC-12)".
func memberTag(party, state string, district *int) string {
	if party == "" {
		party = "?"
	}
	if district != nil {
		return fmt.Sprintf("(%s-%s-%d)", party, state, *district)
	}
	return fmt.Sprintf("(%s-%s)", party, state)
}

func memberLine(m services.MemberSummary) string {
	return fmt.Sprintf("%s %s, %s [%s]",
		m.Name, memberTag(m.Party, m.State, m.District), chamberName(m.Chamber), m.BioguideID)
}

func billLine(b domain.Bill) string {
	title := b.ShortTitle
	if title == "" {
		title = b.Title
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", billLabel(b), clip(title, 160))
	if b.IntroducedDate != "" {
		fmt.Fprintf(&sb, " (introduced %s)", b.IntroducedDate)
	}
	return sb.String()
}

// billLabel renders labels such as "H.R. 1 (119th Congress)".
func billLabel(b domain.Bill) string {
	return fmt.Sprintf("%s %d (%s Congress)", billTypeLabel(b.Type), b.Number, ordinal(b.Congress))
}

var billTypeLabels = map[string]string{
	"hr":      "H.R.",
	"s":       "S.",
	"hres":    "H.Res.",
	"sres":    "S.Res.",
	"hjres":   "H.J.Res.",
	"sjres":   "S.J.Res.",
	"hconres": "H.Con.Res.",
	"sconres": "S.Con.Res.",
}

func billTypeLabel(t string) string {
	if l, ok := billTypeLabels[strings.ToLower(t)]; ok {
		return l
	}
	return strings.ToUpper(t)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func clip(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
