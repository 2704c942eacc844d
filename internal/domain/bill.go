package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidBill is returned when a bill identifier or record is malformed.
var ErrInvalidBill = errors.New("invalid bill")

// billTypes is the closed set of measure types stored as bills. Amendments
// have their own numbering and never appear here.
var billTypes = map[string]struct{}{
	"hr": {}, "s": {}, "hjres": {}, "sjres": {},
	"hconres": {}, "sconres": {}, "hres": {}, "sres": {},
}

// IsBillType reports whether t (any case) is a known bill type.
func IsBillType(t string) bool {
	_, ok := billTypes[strings.ToLower(strings.TrimSpace(t))]
	return ok
}

// BillSummary is one CRS summary version of a bill.
type BillSummary struct {
	VersionCode string `json:"version_code"`
	ActionDesc  string `json:"action_desc,omitempty"`
	ActionDate  string `json:"action_date,omitempty"`
	Text        string `json:"text"`
	TextPlain   string `json:"text_plain"`
	UpdateDate  string `json:"update_date,omitempty"`
}

// Bill is a legislative measure keyed by type, number and congress.
// SponsorID is a weak reference to Member.BioguideID.
type Bill struct {
	BillID           string        `json:"bill_id"          gorm:"type:varchar(32);primaryKey"`
	Congress         int           `json:"congress"         gorm:"not null;index:idx_bills_congress_date,priority:1"`
	Type             string        `json:"type"             gorm:"type:varchar(8);not null;index"`
	Number           int           `json:"number"           gorm:"not null"`
	Title            string        `json:"title"            gorm:"type:text"`
	ShortTitle       string        `json:"short_title,omitempty" gorm:"type:text"`
	SponsorID        string        `json:"sponsor_id,omitempty"  gorm:"type:varchar(16);index"`
	IntroducedDate   string        `json:"introduced_date,omitempty" gorm:"type:varchar(10);index:idx_bills_congress_date,priority:2"`
	LatestAction     string        `json:"latest_action,omitempty"   gorm:"type:text"`
	LatestActionDate string        `json:"latest_action_date,omitempty" gorm:"type:varchar(10)"`
	PolicyArea       string        `json:"policy_area,omitempty"     gorm:"type:varchar(255);index"`
	Subjects         []string      `json:"legislative_subjects"      gorm:"column:legislative_subjects;type:text;serializer:json"`
	Summaries        []BillSummary `json:"summaries"                 gorm:"type:text;serializer:json"`
	SummaryText      string        `json:"-"                         gorm:"type:text"`
	UpdatedAt        time.Time     `json:"updated_at"                gorm:"autoUpdateTime:false;index"`
}

// TableName returns the database table name for Bill.
func (Bill) TableName() string { return "bills" }

// BillID composes the business key, e.g. ("HR", 1234, 118) -> "hr1234-118".
func BillID(billType string, number, congress int) string {
	return fmt.Sprintf("%s%d-%d", strings.ToLower(strings.TrimSpace(billType)), number, congress)
}

var billIDRE = regexp.MustCompile(`^([a-z]+)(\d+)-(\d+)$`)

// ParseBillID splits a bill id into its parts.
func ParseBillID(id string) (billType string, number, congress int, err error) {
	m := billIDRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(id)))
	if m == nil || !IsBillType(m[1]) {
		return "", 0, 0, fmt.Errorf("%w: id %q", ErrInvalidBill, id)
	}
	number, _ = strconv.Atoi(m[2])
	congress, _ = strconv.Atoi(m[3])
	if number <= 0 || congress <= 0 {
		return "", 0, 0, fmt.Errorf("%w: id %q", ErrInvalidBill, id)
	}
	return m[1], number, congress, nil
}

// NewBill normalizes b and derives its id. Unknown types and non-positive
// numbers are rejected.
func NewBill(b Bill) (*Bill, error) {
	b.Type = strings.ToLower(strings.TrimSpace(b.Type))
	if !IsBillType(b.Type) {
		return nil, fmt.Errorf("%w: type %q", ErrInvalidBill, b.Type)
	}
	if b.Number <= 0 || b.Congress <= 0 {
		return nil, fmt.Errorf("%w: number %d congress %d", ErrInvalidBill, b.Number, b.Congress)
	}
	b.BillID = BillID(b.Type, b.Number, b.Congress)
	b.SponsorID = strings.ToUpper(strings.TrimSpace(b.SponsorID))
	if b.Subjects == nil {
		b.Subjects = []string{}
	}
	if b.Summaries == nil {
		b.Summaries = []BillSummary{}
	}
	var parts []string
	for _, s := range b.Summaries {
		if s.TextPlain != "" {
			parts = append(parts, s.TextPlain)
		}
	}
	b.SummaryText = strings.Join(parts, "\n")
	return &b, nil
}
