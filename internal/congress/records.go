package congress

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The upstream is inconsistent about scalar types and list wrapping. These
// two decoders absorb that so the record structs can stay plain.

// flexInt decodes a JSON number, a numeric string, or null. Non-numeric
// strings decode to 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(x))
		return nil
	}
	*f = 0
	return nil
}

func intPtr(f *flexInt) *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// items decodes either a JSON array or an object carrying the array
// under "item".
type items[T any] []T

func (it *items[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*it = nil
		return nil
	}
	if b[0] == '[' {
		var v []T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*it = v
		return nil
	}
	var w struct {
		Item []T `json:"item"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*it = w.Item
	return nil
}

// Pagination is the upstream paging block.
type Pagination struct {
	Count int    `json:"count"`
	Next  string `json:"next"`
}

// MemberRecord is a member as returned by /member and /member/congress.
type MemberRecord struct {
	BioguideID      string   `json:"bioguideId"`
	Name            string   `json:"name"`
	DirectOrderName string   `json:"directOrderName"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	PartyName       string   `json:"partyName"`
	State           string   `json:"state"`
	District        *flexInt `json:"district"`
	Depiction       struct {
		ImageURL string `json:"imageUrl"`
	} `json:"depiction"`
	OfficialWebsiteURL string `json:"officialWebsiteUrl"`
	AddressInformation struct {
		PhoneNumber   string `json:"phoneNumber"`
		OfficeAddress string `json:"officeAddress"`
	} `json:"addressInformation"`
	PartyHistory items[struct {
		PartyName string `json:"partyName"`
	}] `json:"partyHistory"`
	Terms items[TermRecord] `json:"terms"`
}

// TermRecord is one entry of MemberRecord.Terms.
type TermRecord struct {
	Congress  flexInt  `json:"congress"`
	Chamber   string   `json:"chamber"`
	StartYear flexInt  `json:"startYear"`
	EndYear   flexInt  `json:"endYear"`
	StateCode string   `json:"stateCode"`
	District  *flexInt `json:"district"`
	PartyName string   `json:"partyName"`
}

// BillRecord covers /bill detail, /bill list items and member legislation
// items. Member legislation lists mix in amendments, which carry
// AmendmentNumber and no Number.
type BillRecord struct {
	Congress        flexInt  `json:"congress"`
	Type            string   `json:"type"`
	Number          *flexInt `json:"number"`
	AmendmentNumber *flexInt `json:"amendmentNumber"`
	Title           string   `json:"title"`
	ShortTitle      string   `json:"shortTitle"`
	Sponsors        []struct {
		BioguideID string `json:"bioguideId"`
	} `json:"sponsors"`
	IntroducedDate string `json:"introducedDate"`
	LatestAction   struct {
		ActionDate string `json:"actionDate"`
		Text       string `json:"text"`
	} `json:"latestAction"`
	PolicyArea struct {
		Name string `json:"name"`
	} `json:"policyArea"`
	UpdateDate string `json:"updateDate"`
}

// SummaryRecord is one CRS summary version.
type SummaryRecord struct {
	VersionCode string `json:"versionCode"`
	ActionDesc  string `json:"actionDesc"`
	ActionDate  string `json:"actionDate"`
	Text        string `json:"text"`
	UpdateDate  string `json:"updateDate"`
}

// SubjectsRecord is the /subjects payload.
type SubjectsRecord struct {
	PolicyArea *struct {
		Name string `json:"name"`
	} `json:"policyArea"`
	LegislativeSubjects items[struct {
		Name string `json:"name"`
	}] `json:"legislativeSubjects"`
}

// BillAction is one step in a bill's history.
type BillAction struct {
	Date string `json:"date"`
	Text string `json:"text"`
	Type string `json:"action_type,omitempty"`
	Code string `json:"action_code,omitempty"`
}

type actionRecord struct {
	ActionDate string `json:"actionDate"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	ActionCode string `json:"actionCode"`
}

// VoteListItem is one entry of the house-vote / senate-vote listings.
type VoteListItem struct {
	Congress          flexInt `json:"congress"`
	SessionNumber     flexInt `json:"sessionNumber"`
	RollCallNumber    flexInt `json:"rollCallNumber"`
	StartDate         string  `json:"startDate"`
	Result            string  `json:"result"`
	VoteType          string  `json:"voteType"`
	LegislationType   string  `json:"legislationType"`
	LegislationNumber string  `json:"legislationNumber"`
	SourceDataURL     string  `json:"sourceDataURL"`
}

// VoteRecord is a roll-call vote detail.
type VoteRecord struct {
	StartDate         string `json:"startDate"`
	VoteQuestion      string `json:"voteQuestion"`
	Description       string `json:"description"`
	Result            string `json:"result"`
	LegislationType   string `json:"legislationType"`
	LegislationNumber string `json:"legislationNumber"`
	SourceDataURL     string `json:"sourceDataURL"`
	VotePartyTotal    []struct {
		YeaTotal       flexInt `json:"yeaTotal"`
		NayTotal       flexInt `json:"nayTotal"`
		PresentTotal   flexInt `json:"presentTotal"`
		NotVotingTotal flexInt `json:"notVotingTotal"`
	} `json:"votePartyTotal"`
}

// HouseMemberVote is one member position on a House roll call.
type HouseMemberVote struct {
	BioguideID string `json:"bioguideID"`
	VoteCast   string `json:"voteCast"`
	VoteParty  string `json:"voteParty"`
	VoteState  string `json:"voteState"`
}
