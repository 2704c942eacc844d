// Package senate parses the senate.gov roll-call vote XML. Senate votes are
// published with per-member name, state and position but no bioguide id;
// resolving members is left to the caller.
package senate

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// ErrEmptyDocument is returned for input without a roll_call_vote root.
var ErrEmptyDocument = errors.New("senate: empty roll call document")

// Member is one senator's entry in a roll call.
type Member struct {
	FirstName   string
	LastName    string
	Party       string
	State       string
	VoteCast    string
	LISMemberID string
}

// RollCall is a parsed Senate roll-call vote.
type RollCall struct {
	Congress   int
	Session    int
	VoteNumber int
	// Date is RFC 3339 in US Eastern time when the feed value parses, and
	// the raw feed value otherwise.
	Date       string
	Question   string
	Result     string
	ResultText string
	Document   string

	DocumentCongress int
	DocumentType     string
	DocumentNumber   string

	Totals  domain.VoteTotals
	Members []Member
}

type xmlRollCall struct {
	XMLName          xml.Name `xml:"roll_call_vote"`
	Congress         string   `xml:"congress"`
	Session          string   `xml:"session"`
	VoteNumber       string   `xml:"vote_number"`
	VoteDate         string   `xml:"vote_date"`
	VoteQuestionText string   `xml:"vote_question_text"`
	Question         string   `xml:"question"`
	VoteResult       string   `xml:"vote_result"`
	VoteResultText   string   `xml:"vote_result_text"`
	VoteDocumentText string   `xml:"vote_document_text"`
	Document         struct {
		Congress string `xml:"document_congress"`
		Type     string `xml:"document_type"`
		Number   string `xml:"document_number"`
	} `xml:"document"`
	Count *struct {
		Yeas    string `xml:"yeas"`
		Nays    string `xml:"nays"`
		Present string `xml:"present"`
		Absent  string `xml:"absent"`
	} `xml:"count"`
	Members []struct {
		FirstName   string `xml:"first_name"`
		LastName    string `xml:"last_name"`
		Party       string `xml:"party"`
		State       string `xml:"state"`
		VoteCast    string `xml:"vote_cast"`
		LISMemberID string `xml:"lis_member_id"`
	} `xml:"members>member"`
}

// Parse decodes a roll_call_vote document.
func Parse(data []byte) (*RollCall, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	var x xmlRollCall
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("senate: parse roll call: %w", err)
	}

	rc := &RollCall{
		Congress:         atoi(x.Congress),
		Session:          atoi(x.Session),
		VoteNumber:       atoi(x.VoteNumber),
		Date:             ParseDate(x.VoteDate),
		Question:         clean(x.VoteQuestionText),
		Result:           clean(x.VoteResult),
		ResultText:       clean(x.VoteResultText),
		Document:         clean(x.VoteDocumentText),
		DocumentCongress: atoi(x.Document.Congress),
		DocumentType:     clean(x.Document.Type),
		DocumentNumber:   clean(x.Document.Number),
	}
	if rc.Question == "" {
		rc.Question = clean(x.Question)
	}

	if x.Count != nil {
		rc.Totals = domain.VoteTotals{
			Yea:       atoi(x.Count.Yeas),
			Nay:       atoi(x.Count.Nays),
			Present:   atoi(x.Count.Present),
			NotVoting: atoi(x.Count.Absent),
		}
	} else {
		rc.Totals = TotalsFromResult(rc.ResultText)
	}

	rc.Members = make([]Member, 0, len(x.Members))
	for _, m := range x.Members {
		rc.Members = append(rc.Members, Member{
			FirstName:   clean(m.FirstName),
			LastName:    clean(m.LastName),
			Party:       clean(m.Party),
			State:       strings.ToUpper(clean(m.State)),
			VoteCast:    clean(m.VoteCast),
			LISMemberID: clean(m.LISMemberID),
		})
	}
	return rc, nil
}

const dateLayout = "January 2, 2006, 03:04 PM"

var eastern = func() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("EST", -5*60*60)
}()

// ParseDate converts a feed date such as "January 8, 2024, 05:27 PM" to
// RFC 3339. Values that do not parse are returned trimmed and unchanged.
func ParseDate(s string) string {
	s = clean(s)
	if s == "" {
		return ""
	}
	t, err := time.ParseInLocation(dateLayout, s, eastern)
	if err != nil {
		return s
	}
	return t.Format(time.RFC3339)
}

var tallyRE = regexp.MustCompile(`\((\d+)-(\d+)\)`)

// TotalsFromResult reads yea/nay counts from result text such as
// "Cloture Motion Agreed to (73-15)".
func TotalsFromResult(s string) domain.VoteTotals {
	m := tallyRE.FindStringSubmatch(s)
	if m == nil {
		return domain.VoteTotals{}
	}
	return domain.VoteTotals{Yea: atoi(m[1]), Nay: atoi(m[2])}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func clean(s string) string { return strings.Join(strings.Fields(s), " ") }
