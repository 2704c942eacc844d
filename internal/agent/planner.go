package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/search"
	"github.com/tbourn/go-congress-backend/internal/services"
)

// Planner answers assistant prompts with keyword rules: it picks one or
// two tools from the prompt's vocabulary, extracts their arguments and
// joins the tool outputs into the reply. Prompts that match no rule are
// routed by similarity to the tool descriptions.
type Planner struct {
	Tools *Registry

	// CurrentCongress completes bill ids written without a congress.
	CurrentCongress int

	fallback search.Index
}

var _ services.Planner = (*Planner)(nil)

// NewPlanner builds a planner over the registry's tools.
func NewPlanner(r *Registry, currentCongress int) *Planner {
	docs := make([]search.Doc, 0, len(r.tools))
	for _, t := range r.Tools() {
		def := t.Definition()
		docs = append(docs, search.Doc{
			ID:   def.Name,
			Text: strings.ReplaceAll(def.Name, "_", " ") + " " + def.Description,
		})
	}
	return &Planner{
		Tools:           r,
		CurrentCongress: currentCongress,
		fallback:        search.NewIndex(docs, search.WithStopwords(stopwordList())),
	}
}

// Plan implements services.Planner.
func (p *Planner) Plan(ctx context.Context, prompt string) (services.Reply, error) {
	ctx, span := otel.Tracer("agent/Planner").Start(ctx, "Plan")
	defer span.End()

	in := parsePrompt(prompt)
	run := &planRun{p: p, ctx: ctx}

	switch {
	case in.billID != "":
		run.call("get_bill", Args{"bill_id": p.completeBillID(in.billID)})

	case in.bioguideID != "":
		run.call(memberFollowUp(in), in.followUpArgs(in.bioguideID))

	case len(in.name) > 0 || (in.memberWord && !in.billWord):
		out := run.call("search_members", in.memberArgs())
		if len(out.Refs) == 1 && run.err == nil {
			run.call(memberFollowUp(in), in.followUpArgs(out.Refs[0]))
		}

	case in.billWord:
		run.call("search_bills", in.billArgs())

	default:
		hits := p.fallback.TopK(prompt, 1)
		if len(hits) == 0 {
			break
		}
		switch hits[0].ID {
		case "search_members", "get_member_details", "get_member_bills", "get_member_votes":
			run.call("search_members", in.memberArgs())
		case "search_bills", "get_bill":
			run.call("search_bills", in.billArgs())
		}
	}

	span.SetAttributes(attribute.StringSlice("tools", run.tools))
	reply := services.Reply{Text: strings.Join(run.texts, "\n\n"), Tools: run.tools}
	return reply, run.err
}

// completeBillID appends the current congress to ids like "hr1".
func (p *Planner) completeBillID(id string) string {
	if strings.Contains(id, "-") || p.CurrentCongress <= 0 {
		return id
	}
	return fmt.Sprintf("%s-%d", id, p.CurrentCongress)
}

type planRun struct {
	p     *Planner
	ctx   context.Context
	tools []string
	texts []string
	err   error
}

// call runs one tool. Lookups that miss become a sentence in the reply;
// other failures stop the plan.
func (r *planRun) call(name string, args Args) Output {
	if r.err != nil {
		return Output{}
	}
	r.tools = append(r.tools, name)
	out, err := r.p.Tools.Call(r.ctx, name, args)
	if err != nil {
		if msg, ok := friendlyError(err, args); ok {
			r.texts = append(r.texts, msg)
			return Output{}
		}
		log.Warn().Err(err).Str("tool", name).Msg("assistant tool failed")
		r.err = err
		return Output{}
	}
	r.texts = append(r.texts, out.Text)
	return out
}

func friendlyError(err error, args Args) (string, bool) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		return fmt.Sprintf("No member with bioguide id %s was found.", strings.ToUpper(args.String("bioguide_id", "?"))), true
	case errors.Is(err, services.ErrBillNotFound):
		return fmt.Sprintf("No bill %s was found.", args.String("bill_id", "?")), true
	case errors.Is(err, services.ErrInvalidBillID):
		return fmt.Sprintf("%q is not a valid bill id.", args.String("bill_id", "")), true
	case errors.Is(err, services.ErrInvalidMemberID):
		return "That is not a valid bioguide id.", true
	}
	return "", false
}

func memberFollowUp(in promptInfo) string {
	switch {
	case in.voteWord:
		return "get_member_votes"
	case in.sponsorWord || in.billWord:
		return "get_member_bills"
	}
	return "get_member_details"
}

// promptInfo is what the rules extract from a prompt.
type promptInfo struct {
	billID     string
	bioguideID string
	congress   int

	name     []string
	state    string
	party    string
	chamber  string
	keywords []string

	memberWord  bool
	billWord    bool
	voteWord    bool
	sponsorWord bool
	cosponsor   bool
}

func (in promptInfo) memberArgs() Args {
	a := Args{"limit": float64(10)}
	if len(in.name) > 0 {
		a["query"] = strings.Join(in.name, " ")
	}
	if in.state != "" {
		a["state"] = in.state
	}
	if in.party != "" {
		a["party"] = in.party
	}
	if in.chamber != "" {
		a["chamber"] = in.chamber
	}
	return a
}

func (in promptInfo) followUpArgs(bioguideID string) Args {
	a := Args{"bioguide_id": bioguideID}
	if in.cosponsor {
		a["type"] = services.LegislationCosponsored
	}
	return a
}

func (in promptInfo) billArgs() Args {
	a := Args{"limit": float64(10)}
	if len(in.keywords) > 0 {
		a["query"] = strings.Join(in.keywords, " ")
	}
	if in.congress > 0 {
		a["congress"] = float64(in.congress)
	}
	if in.party != "" {
		a["sponsor_party"] = in.party
	}
	return a
}

var (
	billIDRE    = regexp.MustCompile(`(?i)\b(hconres|sconres|hjres|sjres|hres|sres|hr|s)(\s?)(\d{1,5})(?:-(\d{1,3}))?\b`)
	bioguideRE  = regexp.MustCompile(`\b([A-Za-z]\d{6})\b`)
	congressRE  = regexp.MustCompile(`(?i)\b(\d{2,3})(?:st|nd|rd|th)?\s+congress\b`)
	promptWordR = regexp.MustCompile(`[\p{L}][\p{L}\p{N}'-]*|\d+`)
)

func parsePrompt(prompt string) promptInfo {
	var in promptInfo
	flat := strings.ReplaceAll(prompt, ".", "")

	for _, m := range billIDRE.FindAllStringSubmatch(flat, -1) {
		typ := strings.ToLower(m[1])
		if typ == "s" && m[2] != "" {
			continue
		}
		id := typ + m[3]
		if m[4] != "" {
			id += "-" + m[4]
		}
		in.billID = id
		break
	}
	if m := bioguideRE.FindStringSubmatch(prompt); m != nil {
		in.bioguideID = strings.ToUpper(m[1])
	}
	if m := congressRE.FindStringSubmatch(prompt); m != nil {
		in.congress, _ = strconv.Atoi(m[1])
	}

	words := promptWordR.FindAllString(flat, -1)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(strings.TrimSuffix(strings.TrimSuffix(w, "'s"), "'"))
	}
	used := make([]bool, len(words))
	in.state = findState(words, lower, used)

	for i, w := range lower {
		switch {
		case partyWords[w] != "":
			in.party = partyWords[w]
			used[i] = true
		case chamberWords[w] != "":
			in.chamber = chamberWords[w]
			in.memberWord = true
			used[i] = true
		case memberWords[w]:
			in.memberWord = true
			used[i] = true
		case voteWords[w]:
			in.voteWord = true
			used[i] = true
		case sponsorWords[w]:
			in.sponsorWord = true
			in.cosponsor = in.cosponsor || strings.HasPrefix(w, "co")
			used[i] = true
		case billWords[w]:
			in.billWord = true
			used[i] = true
		}
	}

	for i, w := range words {
		if used[i] || isStopword(lower[i]) || unicode.IsDigit(rune(w[0])) {
			continue
		}
		if bioguideRE.MatchString(w) {
			continue
		}
		r := []rune(w)
		if len(r) < 2 {
			continue
		}
		if unicode.IsUpper(r[0]) {
			in.name = append(in.name, strings.TrimSuffix(strings.TrimSuffix(w, "'s"), "'"))
			continue
		}
		if len(lower[i]) >= 3 {
			in.keywords = append(in.keywords, lower[i])
		}
	}
	// A capitalized word in a bill question is a keyword, not a name.
	if in.billWord && !in.sponsorWord && !in.memberWord {
		for _, n := range in.name {
			in.keywords = append(in.keywords, strings.ToLower(n))
		}
		in.name = nil
	}
	return in
}

// findState marks and returns the first state named in the prompt, by full
// name or by upper-case postal code.
func findState(words, lower []string, used []bool) string {
	names := domain.StateNames()
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	// Longest names first so "west virginia" wins over "virginia".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, name := range keys {
		parts := strings.Fields(name)
		for i := 0; i+len(parts) <= len(lower); i++ {
			match := true
			for j, p := range parts {
				if lower[i+j] != p {
					match = false
					break
				}
			}
			if match {
				for j := range parts {
					used[i+j] = true
				}
				return names[name]
			}
		}
	}
	for i, w := range words {
		if len(w) == 2 && strings.ToUpper(w) == w {
			if code := domain.StateCode(w); code != "" {
				used[i] = true
				return code
			}
		}
	}
	return ""
}

var (
	partyWords = map[string]string{
		"democrat": "D", "democrats": "D", "democratic": "D",
		"republican": "R", "republicans": "R", "gop": "R",
		"independent": "I", "independents": "I",
	}
	chamberWords = map[string]string{
		"senator": "senate", "senators": "senate", "senate": "senate", "sen": "senate",
		"representative": "house", "representatives": "house", "rep": "house", "reps": "house",
		"house": "house", "congressman": "house", "congresswoman": "house",
	}
	memberWords = setOf("member", "members", "legislator", "legislators", "lawmaker", "lawmakers",
		"delegation", "who", "whom", "contact", "phone", "office", "website", "represents", "serves")
	voteWords    = setOf("vote", "votes", "voted", "voting", "roll", "position", "positions")
	sponsorWords = setOf("sponsor", "sponsors", "sponsored", "cosponsor", "cosponsors", "cosponsored", "authored")
	billWords    = setOf("bill", "bills", "legislation", "act", "acts", "law", "laws", "measure", "measures",
		"resolution", "resolutions", "congress")
	stopwords = setOf("a", "an", "the", "and", "or", "of", "to", "in", "is", "are", "was", "were", "be",
		"for", "on", "with", "by", "from", "at", "as", "that", "this", "it", "its", "me", "my", "i",
		"what", "which", "how", "show", "tell", "about", "list", "find", "give", "get", "did", "does",
		"do", "has", "have", "had", "any", "all", "some", "recent", "recently", "latest", "new",
		"please", "can", "you", "there", "their", "they", "his", "her", "hers", "he", "she", "call",
		"calls", "info", "information", "details", "regarding", "related", "introduced", "current",
		"st", "nd", "rd", "th", "many", "much", "when", "where", "why", "record")
)

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func isStopword(w string) bool { return stopwords[w] }

func stopwordList() []string {
	out := make([]string, 0, len(stopwords))
	for w := range stopwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
