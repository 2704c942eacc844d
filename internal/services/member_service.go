package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/search"
)

// MemberQuery is a member search request. Blank filters are ignored.
type MemberQuery struct {
	Name     string
	State    string
	Party    string
	Chamber  string
	Page     int
	PageSize int
}

// Predicate combines the name query and the structured filters.
func (q MemberQuery) Predicate() search.Predicate {
	return search.AllOf(
		search.BuildNameQuery(q.Name),
		search.Exact(search.FieldState, strings.ToUpper(strings.TrimSpace(q.State)), false),
		search.Exact(search.FieldParty, strings.ToUpper(strings.TrimSpace(q.Party)), false),
		search.Exact(search.FieldChamber, strings.ToLower(strings.TrimSpace(q.Chamber)), false),
	)
}

// MemberSummary is the list form of a member.
type MemberSummary struct {
	BioguideID string         `json:"bioguide_id"`
	Name       string         `json:"name"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	Party      string         `json:"party"`
	State      string         `json:"state"`
	District   *int           `json:"district,omitempty"`
	Chamber    domain.Chamber `json:"chamber"`
	ImageURL   string         `json:"image_url,omitempty"`
}

func summarizeMember(m domain.Member) MemberSummary {
	return MemberSummary{
		BioguideID: m.BioguideID,
		Name:       m.Name,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Party:      m.Party,
		State:      m.State,
		District:   m.District,
		Chamber:    m.Chamber,
		ImageURL:   m.ImageURL,
	}
}

// MemberStats aggregates the stored roster.
type MemberStats struct {
	Total       int64            `json:"total"`
	ByParty     map[string]int64 `json:"by_party"`
	ByChamber   map[string]int64 `json:"by_chamber"`
	LastUpdated *time.Time       `json:"last_updated,omitempty"`
}

// Legislation kinds accepted by MemberService.Bills.
const (
	LegislationSponsored   = "sponsored"
	LegislationCosponsored = "cosponsored"
)

// MemberService answers member queries from the local store, falling back
// to the upstream API for single-member lookups and legislation lists.
type MemberService struct {
	DB       *gorm.DB
	Upstream MemberUpstream

	Now func() time.Time
}

// NewMemberService constructs a MemberService. up may be nil, in which
// case only stored members are served.
func NewMemberService(db *gorm.DB, up MemberUpstream) *MemberService {
	return &MemberService{DB: db, Upstream: up, Now: func() time.Time { return time.Now().UTC() }}
}

// Search returns one page of members matching q, ordered by last name,
// first name and bioguide id. Store failures are logged and yield an empty
// page.
func (s *MemberService) Search(ctx context.Context, q MemberQuery) (Page[MemberSummary], error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("query", q.Name),
			attribute.String("state", q.State),
			attribute.String("party", q.Party),
			attribute.String("chamber", q.Chamber),
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	page, size, offset := normalizePage(q.Page, q.PageSize)
	p := q.Predicate()

	total, err := repo.CountMembers(ctx, s.DB, p)
	if err != nil {
		log.Error().Err(err).Str("query", q.Name).Msg("member count failed")
		span.RecordError(err)
		return NewPage[MemberSummary](nil, 0, page, size), nil
	}
	if total == 0 {
		return NewPage[MemberSummary](nil, 0, page, size), nil
	}
	rows, err := repo.ListMembersPage(ctx, s.DB, p, offset, size)
	if err != nil {
		log.Error().Err(err).Str("query", q.Name).Msg("member list failed")
		span.RecordError(err)
		return NewPage[MemberSummary](nil, 0, page, size), nil
	}
	out := make([]MemberSummary, 0, len(rows))
	for _, m := range rows {
		out = append(out, summarizeMember(m))
	}
	return NewPage(out, total, page, size), nil
}

// Get returns a member by bioguide id. A member missing locally is fetched
// upstream and stored.
func (s *MemberService) Get(ctx context.Context, id string) (*domain.Member, error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("member.id", id)))
	defer span.End()

	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrInvalidMemberID
	}
	m, err := repo.GetMember(ctx, s.DB, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if s.Upstream == nil {
		return nil, ErrMemberNotFound
	}

	rec, err := s.Upstream.Member(ctx, id)
	if err != nil {
		return nil, upstreamErr(err, ErrMemberNotFound)
	}
	m, err = congress.ToMember(*rec, s.now())
	if err != nil {
		log.Warn().Err(err).Str("bioguide_id", id).Msg("upstream member rejected")
		return nil, ErrMemberNotFound
	}
	if err := repo.UpsertMember(ctx, s.DB, m); err != nil {
		log.Error().Err(err).Str("bioguide_id", id).Msg("member upsert failed")
	}
	return m, nil
}

// Bills lists a member's sponsored or cosponsored measures straight from
// upstream. Amendments in the upstream list are dropped, so a page may hold
// fewer items than requested.
func (s *MemberService) Bills(ctx context.Context, id, kind string, page, pageSize int) (Page[domain.Bill], error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "Bills",
		trace.WithAttributes(
			attribute.String("member.id", id),
			attribute.String("kind", kind),
		),
	)
	defer span.End()

	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return Page[domain.Bill]{}, ErrInvalidMemberID
	}
	page, size, offset := normalizePage(page, pageSize)

	var fetch func(context.Context, string, int, int) ([]congress.BillRecord, congress.Pagination, error)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", LegislationSponsored:
		if s.Upstream != nil {
			fetch = s.Upstream.SponsoredLegislation
		}
	case LegislationCosponsored:
		if s.Upstream != nil {
			fetch = s.Upstream.CosponsoredLegislation
		}
	default:
		return Page[domain.Bill]{}, ErrInvalidLegislationKind
	}
	if fetch == nil {
		return NewPage[domain.Bill](nil, 0, page, size), nil
	}

	recs, pg, err := fetch(ctx, id, size, offset)
	if err != nil {
		return Page[domain.Bill]{}, upstreamErr(err, ErrMemberNotFound)
	}
	now := s.now()
	out := make([]domain.Bill, 0, len(recs))
	for _, r := range recs {
		b, err := congress.ToBill(r, nil, nil, now)
		if err != nil {
			continue
		}
		out = append(out, *b)
	}
	total := int64(pg.Count)
	if total < int64(offset+len(recs)) {
		total = int64(offset + len(recs))
	}
	return NewPage(out, total, page, size), nil
}

// Votes returns a member's recorded positions from cached roll calls,
// newest first.
func (s *MemberService) Votes(ctx context.Context, id string, page, pageSize int) (Page[domain.MemberVoteRecord], error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "Votes", trace.WithAttributes(attribute.String("member.id", id)))
	defer span.End()

	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return Page[domain.MemberVoteRecord]{}, ErrInvalidMemberID
	}
	page, size, offset := normalizePage(page, pageSize)

	total, err := repo.CountMemberVotes(ctx, s.DB, id)
	if err != nil {
		return Page[domain.MemberVoteRecord]{}, err
	}
	if total == 0 {
		return NewPage[domain.MemberVoteRecord](nil, 0, page, size), nil
	}
	rows, err := repo.ListMemberVotesPage(ctx, s.DB, id, offset, size)
	if err != nil {
		return Page[domain.MemberVoteRecord]{}, err
	}
	return NewPage(rows, total, page, size), nil
}

// States returns member counts per state, ordered by state code.
func (s *MemberService) States(ctx context.Context) ([]repo.StateCount, error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "States")
	defer span.End()

	rows, err := repo.CountMembersByState(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].State < rows[j].State })
	if rows == nil {
		rows = []repo.StateCount{}
	}
	return rows, nil
}

// Stats returns roster totals by party and by chamber.
func (s *MemberService) Stats(ctx context.Context) (MemberStats, error) {
	tr := otel.Tracer("services/MemberService")
	ctx, span := tr.Start(ctx, "Stats")
	defer span.End()

	total, last, err := repo.MembersStats(ctx, s.DB)
	if err != nil {
		return MemberStats{}, err
	}
	groups, err := repo.CountMembersByPartyChamber(ctx, s.DB)
	if err != nil {
		return MemberStats{}, err
	}
	st := MemberStats{
		Total:       total,
		ByParty:     map[string]int64{},
		ByChamber:   map[string]int64{},
		LastUpdated: last,
	}
	for _, g := range groups {
		st.ByParty[g.Party] += g.Count
		st.ByChamber[g.Chamber] += g.Count
	}
	return st, nil
}

func (s *MemberService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// upstreamErr maps an upstream failure: a 404 becomes notFound, anything
// else is wrapped in ErrUpstream.
func upstreamErr(err, notFound error) error {
	if errors.Is(err, congress.ErrNotFound) {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
