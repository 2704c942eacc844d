package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// BillQuery is a bill search request. Zero values are ignored, except
// Congress which defaults to the current congress for sync scoping.
type BillQuery struct {
	Congress     int
	Type         string
	Sponsor      string
	SponsorParty string
	Subject      string
	Q            string
	Page         int
	PageSize     int
}

func (q BillQuery) filter() repo.BillFilter {
	return repo.BillFilter{
		Congress:     q.Congress,
		Type:         q.Type,
		SponsorID:    q.Sponsor,
		SponsorParty: q.SponsorParty,
		Subject:      q.Subject,
		Query:        q.Q,
	}
}

// BillService serves bill searches and lookups, backfilling from upstream
// when the local store comes up short.
type BillService struct {
	DB       *gorm.DB
	Upstream BillUpstream
	Syncer   BillSync
	Scopes   *ScopeTracker

	// CurrentCongress scopes searches that name no congress.
	CurrentCongress int
	// SyncBatch bounds how many bills one lazy sync lists.
	SyncBatch int
}

// Search returns one page of bills, most recently introduced first. When
// the page comes back short and the congress has not been synced in this
// process, one bounded sync runs and the query is repeated once.
func (s *BillService) Search(ctx context.Context, q BillQuery) (Page[domain.Bill], error) {
	tr := otel.Tracer("services/BillService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.Int("congress", q.Congress),
			attribute.String("type", q.Type),
			attribute.String("query", q.Q),
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	page, size, offset := normalizePage(q.Page, q.PageSize)
	f := q.filter()

	rows, total := s.query(ctx, f, offset, size)
	if len(rows) < size && s.Syncer != nil && s.Scopes != nil {
		c := q.Congress
		if c <= 0 {
			c = s.CurrentCongress
		}
		scope := billScope(c)
		if c > 0 && !s.Scopes.Synced(scope) {
			n := s.Syncer.Sync(ctx, c, s.batch())
			s.Scopes.MarkSynced(scope)
			span.SetAttributes(attribute.Int("synced", n))
			rows, total = s.query(ctx, f, offset, size)
		}
	}
	return NewPage(rows, total, page, size), nil
}

func (s *BillService) query(ctx context.Context, f repo.BillFilter, offset, limit int) ([]domain.Bill, int64) {
	total, err := repo.CountBills(ctx, s.DB, f)
	if err != nil {
		log.Error().Err(err).Msg("bill count failed")
		return nil, 0
	}
	if total == 0 {
		return nil, 0
	}
	rows, err := repo.ListBillsPage(ctx, s.DB, f, offset, limit)
	if err != nil {
		log.Error().Err(err).Msg("bill list failed")
		return nil, 0
	}
	return rows, total
}

// Get returns a bill by id ("hr1234-118"). Bills missing locally are
// fetched upstream and stored.
func (s *BillService) Get(ctx context.Context, id string) (*domain.Bill, error) {
	tr := otel.Tracer("services/BillService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("bill.id", id)))
	defer span.End()

	typ, number, c, err := domain.ParseBillID(id)
	if err != nil {
		return nil, ErrInvalidBillID
	}
	id = domain.BillID(typ, number, c)

	b, err := repo.GetBill(ctx, s.DB, id)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if s.Syncer == nil {
		return nil, ErrBillNotFound
	}

	b, err = s.Syncer.Fetch(ctx, c, typ, number)
	if errors.Is(err, congress.ErrNotABill) {
		return nil, ErrBillNotFound
	}
	if err != nil {
		return nil, upstreamErr(err, ErrBillNotFound)
	}
	if err := repo.UpsertBill(ctx, s.DB, b); err != nil {
		log.Error().Err(err).Str("bill_id", id).Msg("bill upsert failed")
	}
	return b, nil
}

// Actions lists a bill's legislative history from upstream, newest first.
func (s *BillService) Actions(ctx context.Context, id string, limit int) ([]congress.BillAction, error) {
	tr := otel.Tracer("services/BillService")
	ctx, span := tr.Start(ctx, "Actions", trace.WithAttributes(attribute.String("bill.id", id)))
	defer span.End()

	typ, number, c, err := domain.ParseBillID(id)
	if err != nil {
		return nil, ErrInvalidBillID
	}
	if s.Upstream == nil {
		return []congress.BillAction{}, nil
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	acts, err := s.Upstream.BillActions(ctx, c, strings.ToLower(typ), number, limit)
	if err != nil {
		return nil, upstreamErr(err, ErrBillNotFound)
	}
	if acts == nil {
		acts = []congress.BillAction{}
	}
	return acts, nil
}

func (s *BillService) batch() int {
	if s.SyncBatch > 0 {
		return s.SyncBatch
	}
	return 50
}
