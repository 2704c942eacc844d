package services

import (
	"context"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
)

// The upstream interfaces below are implemented by *congress.Client. They
// are split per aggregate so tests only fake what a service calls.

// MemberUpstream fetches member data.
type MemberUpstream interface {
	ListMembers(ctx context.Context, congressNum, limit, offset int) ([]congress.MemberRecord, congress.Pagination, error)
	Member(ctx context.Context, bioguideID string) (*congress.MemberRecord, error)
	SponsoredLegislation(ctx context.Context, bioguideID string, limit, offset int) ([]congress.BillRecord, congress.Pagination, error)
	CosponsoredLegislation(ctx context.Context, bioguideID string, limit, offset int) ([]congress.BillRecord, congress.Pagination, error)
}

// BillUpstream fetches bill data.
type BillUpstream interface {
	ListBills(ctx context.Context, congressNum, limit, offset int) ([]congress.BillRecord, congress.Pagination, error)
	Bill(ctx context.Context, congressNum int, billType string, number int) (*congress.BillRecord, error)
	BillSummaries(ctx context.Context, congressNum int, billType string, number int) ([]congress.SummaryRecord, error)
	BillSubjects(ctx context.Context, congressNum int, billType string, number int) (*congress.SubjectsRecord, error)
	BillActions(ctx context.Context, congressNum int, billType string, number, limit int) ([]congress.BillAction, error)
}

// VoteUpstream fetches roll-call data from both chambers.
type VoteUpstream interface {
	ListVotes(ctx context.Context, ch domain.Chamber, congressNum, session, limit, offset int) ([]congress.VoteListItem, congress.Pagination, error)
	HouseVote(ctx context.Context, congressNum, session, roll int) (*congress.VoteRecord, error)
	HouseVoteMembers(ctx context.Context, congressNum, session, roll int) ([]congress.HouseMemberVote, error)
	SenateVoteXML(ctx context.Context, congressNum, session, roll int, sourceURL string) ([]byte, error)
}

var (
	_ MemberUpstream = (*congress.Client)(nil)
	_ BillUpstream   = (*congress.Client)(nil)
	_ VoteUpstream   = (*congress.Client)(nil)
)
