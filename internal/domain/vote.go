package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidVote is returned when a vote identifier or record is malformed.
var ErrInvalidVote = errors.New("invalid vote")

// Position is a member's recorded vote.
type Position string

const (
	PositionYea       Position = "Yea"
	PositionNay       Position = "Nay"
	PositionPresent   Position = "Present"
	PositionNotVoting Position = "Not Voting"
)

// ParsePosition maps the spellings used by the House and Senate feeds onto
// the closed vocabulary.
func ParsePosition(s string) (Position, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "yea", "aye", "yes":
		return PositionYea, true
	case "nay", "no":
		return PositionNay, true
	case "present":
		return PositionPresent, true
	case "not voting", "notvoting", "absent":
		return PositionNotVoting, true
	}
	return "", false
}

// VoteTotals are the aggregate counts of a roll call.
type VoteTotals struct {
	Yea       int `json:"yea"`
	Nay       int `json:"nay"`
	Present   int `json:"present"`
	NotVoting int `json:"not_voting"`
}

// Vote is a roll-call vote keyed by chamber, congress, session and roll
// number. MemberVotes keys are bioguide ids that exist in the members
// table; the positions are persisted as MemberVote rows.
type Vote struct {
	VoteID      string              `json:"vote_id"      gorm:"type:varchar(32);primaryKey"`
	Chamber     Chamber             `json:"chamber"      gorm:"type:varchar(8);not null;index:idx_votes_scope,priority:1"`
	Congress    int                 `json:"congress"     gorm:"not null;index:idx_votes_scope,priority:2"`
	Session     int                 `json:"session"      gorm:"not null;index:idx_votes_scope,priority:3"`
	RollNumber  int                 `json:"roll_number"  gorm:"not null"`
	Date        string              `json:"date,omitempty" gorm:"type:varchar(32);index"`
	Question    string              `json:"question,omitempty"    gorm:"type:text"`
	Description string              `json:"description,omitempty" gorm:"type:text"`
	Result      string              `json:"result,omitempty"      gorm:"type:varchar(255)"`
	BillID      string              `json:"bill_id,omitempty"     gorm:"type:varchar(32);index"`
	Totals      VoteTotals          `json:"totals"       gorm:"embedded;embeddedPrefix:total_"`
	MemberVotes map[string]Position `json:"member_votes,omitempty" gorm:"-"`
	UpdatedAt   time.Time           `json:"updated_at"   gorm:"autoUpdateTime:false"`
}

// TableName returns the database table name for Vote.
func (Vote) TableName() string { return "votes" }

// MemberVote is one member's position on one roll call.
type MemberVote struct {
	VoteID     string   `json:"vote_id"     gorm:"type:varchar(32);primaryKey"`
	BioguideID string   `json:"bioguide_id" gorm:"type:varchar(16);primaryKey;index"`
	Position   Position `json:"position"    gorm:"type:varchar(16);not null"`
}

// TableName returns the database table name for MemberVote.
func (MemberVote) TableName() string { return "member_votes" }

// VoteID composes the business key, e.g. (house, 118, 1, 123) -> "h118-1-123".
func VoteID(ch Chamber, congress, session, roll int) string {
	return fmt.Sprintf("%s%d-%d-%d", ch.Abbrev(), congress, session, roll)
}

var voteIDRE = regexp.MustCompile(`^([hs])(\d+)-(\d+)-(\d+)$`)

// ParseVoteID splits a vote id into its parts.
func ParseVoteID(id string) (ch Chamber, congress, session, roll int, err error) {
	m := voteIDRE.FindStringSubmatch(strings.ToLower(strings.TrimSpace(id)))
	if m == nil {
		return "", 0, 0, 0, fmt.Errorf("%w: id %q", ErrInvalidVote, id)
	}
	ch = ChamberHouse
	if m[1] == "s" {
		ch = ChamberSenate
	}
	congress, _ = strconv.Atoi(m[2])
	session, _ = strconv.Atoi(m[3])
	roll, _ = strconv.Atoi(m[4])
	if congress <= 0 || session <= 0 || roll <= 0 {
		return "", 0, 0, 0, fmt.Errorf("%w: id %q", ErrInvalidVote, id)
	}
	return ch, congress, session, roll, nil
}

// NewVote validates the key parts of v and derives its id.
func NewVote(v Vote) (*Vote, error) {
	ch, err := ParseChamber(string(v.Chamber))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVote, err)
	}
	if v.Congress <= 0 || v.Session <= 0 || v.RollNumber <= 0 {
		return nil, fmt.Errorf("%w: congress %d session %d roll %d", ErrInvalidVote, v.Congress, v.Session, v.RollNumber)
	}
	v.Chamber = ch
	v.VoteID = VoteID(ch, v.Congress, v.Session, v.RollNumber)
	if v.MemberVotes == nil {
		v.MemberVotes = map[string]Position{}
	}
	return &v, nil
}

// Rows flattens MemberVotes into child rows.
func (v *Vote) Rows() []MemberVote {
	out := make([]MemberVote, 0, len(v.MemberVotes))
	for id, p := range v.MemberVotes {
		out = append(out, MemberVote{VoteID: v.VoteID, BioguideID: id, Position: p})
	}
	return out
}

// MemberVoteRecord is one entry of a member's voting record.
type MemberVoteRecord struct {
	VoteID   string   `json:"vote_id"`
	Chamber  Chamber  `json:"chamber"`
	Congress int      `json:"congress"`
	Session  int      `json:"session"`
	Date     string   `json:"date,omitempty"`
	Question string   `json:"question,omitempty"`
	Result   string   `json:"result,omitempty"`
	BillID   string   `json:"bill_id,omitempty"`
	Position Position `json:"position"`
}
