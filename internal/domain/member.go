// Package domain defines the persistence models for Congress members, bills,
// roll-call votes and the assistant conversations that query them. These
// types are mapped with GORM and shared by the repository and service layers.
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Chamber is one of the two legislative houses.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

// ErrInvalidMember is returned by NewMember when an invariant is violated.
var ErrInvalidMember = errors.New("invalid member")

// ErrInvalidChamber is returned by ParseChamber for unknown chamber names.
var ErrInvalidChamber = errors.New("invalid chamber")

// ParseChamber accepts the short forms used by the API ("house", "senate")
// and the long forms returned upstream ("House of Representatives").
func ParseChamber(s string) (Chamber, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "house" || v == "h" || strings.HasPrefix(v, "house of"):
		return ChamberHouse, nil
	case v == "senate" || v == "s":
		return ChamberSenate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChamber, s)
}

// Abbrev returns the single-letter prefix used in vote ids.
func (c Chamber) Abbrev() string {
	if c == ChamberSenate {
		return "s"
	}
	return "h"
}

// Term is an immutable snapshot of one term served.
type Term struct {
	Congress  int     `json:"congress,omitempty"`
	Chamber   Chamber `json:"chamber"`
	StartYear int     `json:"start_year,omitempty"`
	EndYear   int     `json:"end_year,omitempty"`
	State     string  `json:"state,omitempty"`
	District  *int    `json:"district,omitempty"`
	Party     string  `json:"party,omitempty"`
}

// Member is the canonical identity record of a legislator.
//
// BioguideID is unique and never reassigned. A non-nil District implies
// the house chamber. FirstName and LastName are derived from Name when the
// upstream record does not carry them separately.
type Member struct {
	BioguideID  string    `json:"bioguide_id"  gorm:"type:varchar(16);primaryKey"`
	Name        string    `json:"name"         gorm:"type:varchar(255);not null"`
	FirstName   string    `json:"first_name"   gorm:"type:varchar(128);index:idx_members_name,priority:2"`
	LastName    string    `json:"last_name"    gorm:"type:varchar(128);index:idx_members_name,priority:1"`
	Party       string    `json:"party"        gorm:"type:varchar(8);index"`
	State       string    `json:"state"        gorm:"type:varchar(2);index:idx_members_state_chamber,priority:1"`
	District    *int      `json:"district,omitempty"`
	Chamber     Chamber   `json:"chamber"      gorm:"type:varchar(8);index:idx_members_state_chamber,priority:2"`
	ImageURL    string    `json:"image_url,omitempty"    gorm:"type:varchar(512)"`
	OfficialURL string    `json:"official_url,omitempty" gorm:"type:varchar(512)"`
	Phone       string    `json:"phone,omitempty"        gorm:"type:varchar(64)"`
	Address     string    `json:"address,omitempty"      gorm:"type:varchar(512)"`
	Terms       []Term    `json:"terms"        gorm:"type:text;serializer:json"`
	UpdatedAt   time.Time `json:"updated_at"   gorm:"autoUpdateTime:false"`

	// Case-folded copies of the name columns. SQL lower() is ASCII-only
	// on SQLite, so case-insensitive name lookups compare these instead.
	NameFold      string `json:"-" gorm:"type:varchar(255)"`
	FirstNameFold string `json:"-" gorm:"type:varchar(128);index:idx_members_name_fold,priority:2"`
	LastNameFold  string `json:"-" gorm:"type:varchar(128);index:idx_members_name_fold,priority:1"`
}

// FoldName is the case folding shared by the stored name copies and the
// query arguments compared against them.
func FoldName(s string) string { return strings.ToLower(s) }

// FoldNames refreshes the case-folded name copies.
func (m *Member) FoldNames() {
	m.NameFold = FoldName(m.Name)
	m.FirstNameFold = FoldName(m.FirstName)
	m.LastNameFold = FoldName(m.LastName)
}

// BeforeSave keeps the folded copies in step with the names on every write.
func (m *Member) BeforeSave(*gorm.DB) error {
	m.FoldNames()
	return nil
}

// TableName returns the database table name for Member.
func (Member) TableName() string { return "members" }

// FieldValue exposes the name and filter fields to the in-memory predicate
// matcher.
func (m Member) FieldValue(field string) string {
	switch field {
	case "first_name":
		return m.FirstName
	case "last_name":
		return m.LastName
	case "name":
		return m.Name
	case "state":
		return m.State
	case "party":
		return m.Party
	case "chamber":
		return string(m.Chamber)
	case "bioguide_id":
		return m.BioguideID
	}
	return ""
}

var (
	bioguideRE = regexp.MustCompile(`^[A-Z][0-9]{6}$`)
	stateRE    = regexp.MustCompile(`^[A-Z]{2}$`)
)

// NewMember normalizes m in place and enforces the member invariants:
// a well-formed bioguide id, a known chamber, a two-letter state code and
// district-implies-house. Missing first/last names are parsed from Name.
func NewMember(m Member) (*Member, error) {
	m.BioguideID = strings.ToUpper(strings.TrimSpace(m.BioguideID))
	if !bioguideRE.MatchString(m.BioguideID) {
		return nil, fmt.Errorf("%w: bioguide id %q", ErrInvalidMember, m.BioguideID)
	}
	m.State = strings.ToUpper(strings.TrimSpace(m.State))
	if !stateRE.MatchString(m.State) {
		return nil, fmt.Errorf("%w: state %q", ErrInvalidMember, m.State)
	}
	if m.District != nil && m.Chamber == "" {
		m.Chamber = ChamberHouse
	}
	ch, err := ParseChamber(string(m.Chamber))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMember, err)
	}
	m.Chamber = ch
	if m.District != nil && m.Chamber != ChamberHouse {
		return nil, fmt.Errorf("%w: district set for %s member", ErrInvalidMember, m.Chamber)
	}

	m.Name = CollapseSpaces(m.Name)
	m.FirstName = CollapseSpaces(m.FirstName)
	m.LastName = CollapseSpaces(m.LastName)
	if m.FirstName == "" || m.LastName == "" {
		first, last := ParseName(m.Name)
		if m.FirstName == "" {
			m.FirstName = first
		}
		if m.LastName == "" {
			m.LastName = last
		}
	}
	if m.Name == "" {
		m.Name = strings.TrimSpace(m.FirstName + " " + m.LastName)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidMember)
	}
	m.Party = strings.ToUpper(strings.TrimSpace(m.Party))
	m.FoldNames()
	if m.Terms == nil {
		m.Terms = []Term{}
	}
	return &m, nil
}

// ParseName splits a display name into first and last name. It accepts the
// upstream "Last, First Middle" form and the plain "First Middle Last" form.
// Middle names stay with the first name.
func ParseName(name string) (first, last string) {
	name = CollapseSpaces(name)
	if name == "" {
		return "", ""
	}
	if i := strings.Index(name, ","); i >= 0 {
		last = strings.TrimSpace(name[:i])
		first = strings.TrimSpace(name[i+1:])
		return first, last
	}
	parts := strings.Fields(name)
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// CollapseSpaces trims s and replaces every whitespace run with one space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PartyCode maps a party name or code to its one-letter code. Unknown
// values yield "".
func PartyCode(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "d", "democratic", "democrat":
		return "D"
	case "r", "republican":
		return "R"
	case "i", "id", "independent", "independent democrat":
		return "I"
	case "l", "libertarian":
		return "L"
	}
	return ""
}

// stateAbbrev maps full state and territory names to postal codes.
var stateAbbrev = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY",
	"district of columbia": "DC", "puerto rico": "PR", "guam": "GU",
	"american samoa": "AS", "virgin islands": "VI", "northern mariana islands": "MP",
}

// StateCode returns the postal code for a state name or code. Unknown
// values yield "".
func StateCode(s string) string {
	v := strings.TrimSpace(s)
	if len(v) == 2 {
		up := strings.ToUpper(v)
		if _, ok := stateCodes[up]; ok {
			return up
		}
		return ""
	}
	return stateAbbrev[strings.ToLower(CollapseSpaces(v))]
}

var stateCodes = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stateAbbrev))
	for _, c := range stateAbbrev {
		m[c] = struct{}{}
	}
	return m
}()

// StateNames returns the full-name lookup table, keyed by lower-case name.
func StateNames() map[string]string {
	out := make(map[string]string, len(stateAbbrev))
	for k, v := range stateAbbrev {
		out[k] = v
	}
	return out
}
