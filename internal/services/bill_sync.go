package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/congress"
	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/observability"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// Sync triggers, used as metric labels.
const (
	TriggerLazy     = "lazy"
	TriggerCLI      = "cli"
	TriggerSchedule = "schedule"
)

// BillSync backfills bills of one congress and fetches single bills.
type BillSync interface {
	Sync(ctx context.Context, congressNum, limit int) int
	Fetch(ctx context.Context, congressNum int, billType string, number int) (*domain.Bill, error)
}

// BillSyncer copies bills from the upstream API into the store.
type BillSyncer struct {
	DB       *gorm.DB
	Upstream BillUpstream

	// Freshness is how long a stored bill is trusted before its detail is
	// fetched again.
	Freshness time.Duration
	// Concurrency bounds in-flight bill detail fetches.
	Concurrency int
	// Trigger labels the sync metrics.
	Trigger string

	Now func() time.Time
}

// NewBillSyncer returns a syncer with a one-hour freshness window.
func NewBillSyncer(db *gorm.DB, up BillUpstream) *BillSyncer {
	return &BillSyncer{DB: db, Upstream: up, Freshness: time.Hour, Concurrency: 4, Trigger: TriggerLazy}
}

// Sync fetches up to limit of the most recently updated bills of a congress
// and upserts them. Bills stored within the freshness window are skipped.
// It never fails; the result is the number of bills written.
func (s *BillSyncer) Sync(ctx context.Context, congressNum, limit int) int {
	tr := otel.Tracer("services/BillSyncer")
	ctx, span := tr.Start(ctx, "Sync",
		trace.WithAttributes(
			attribute.Int("congress", congressNum),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	observability.SyncRuns.WithLabelValues("bills", s.trigger()).Inc()
	logger := log.With().Str("kind", "bills").Int("congress", congressNum).Logger()

	recs, _, err := s.Upstream.ListBills(ctx, congressNum, limit, 0)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("bill list fetch failed")
		return 0
	}

	type ref struct {
		id     string
		typ    string
		number int
	}
	refs := make([]ref, 0, len(recs))
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.AmendmentNumber != nil || r.Number == nil || !domain.IsBillType(r.Type) {
			observability.SyncSkipped.WithLabelValues("bills", "malformed").Inc()
			continue
		}
		c := int(r.Congress)
		if c <= 0 {
			c = congressNum
		}
		id := domain.BillID(r.Type, int(*r.Number), c)
		refs = append(refs, ref{id: id, typ: strings.ToLower(r.Type), number: int(*r.Number)})
		ids = append(ids, id)
	}

	fresh, err := repo.FreshBillIDs(ctx, s.DB, ids, s.now().Add(-s.Freshness))
	if err != nil {
		logger.Warn().Err(err).Msg("freshness check failed; refetching all")
		fresh = map[string]struct{}{}
	}

	var synced atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency())
	for _, r := range refs {
		if _, ok := fresh[r.id]; ok {
			observability.SyncSkipped.WithLabelValues("bills", "fresh").Inc()
			continue
		}
		g.Go(func() error {
			b, err := s.Fetch(ctx, congressNum, r.typ, r.number)
			if err != nil {
				reason := "fetch_error"
				if errors.Is(err, congress.ErrNotABill) {
					reason = "malformed"
				}
				observability.SyncSkipped.WithLabelValues("bills", reason).Inc()
				logger.Warn().Err(err).Str("bill_id", r.id).Msg("bill skipped")
				return nil
			}
			if err := repo.UpsertBill(ctx, s.DB, b); err != nil {
				observability.SyncSkipped.WithLabelValues("bills", "store_error").Inc()
				logger.Error().Err(err).Str("bill_id", r.id).Msg("bill upsert failed")
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(synced.Load())
	observability.SyncedRecords.WithLabelValues("bills").Add(float64(n))
	span.SetAttributes(attribute.Int("synced", n))
	logger.Info().Int("listed", len(recs)).Int("synced", n).Msg("bill sync finished")
	return n
}

// Fetch loads a bill's detail, summaries and subjects concurrently and
// transforms them. Only a failed detail fetch is an error; missing
// summaries or subjects leave those fields empty.
func (s *BillSyncer) Fetch(ctx context.Context, congressNum int, billType string, number int) (*domain.Bill, error) {
	var (
		rec       *congress.BillRecord
		summaries []congress.SummaryRecord
		subjects  *congress.SubjectsRecord
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		rec, err = s.Upstream.Bill(ctx, congressNum, billType, number)
		return err
	})
	g.Go(func() error {
		sm, err := s.Upstream.BillSummaries(ctx, congressNum, billType, number)
		if err != nil {
			log.Debug().Err(err).Str("bill_id", domain.BillID(billType, number, congressNum)).Msg("bill summaries unavailable")
			return nil
		}
		summaries = sm
		return nil
	})
	g.Go(func() error {
		sj, err := s.Upstream.BillSubjects(ctx, congressNum, billType, number)
		if err != nil {
			log.Debug().Err(err).Str("bill_id", domain.BillID(billType, number, congressNum)).Msg("bill subjects unavailable")
			return nil
		}
		subjects = sj
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, congress.ErrNotABill
	}
	return congress.ToBill(*rec, summaries, subjects, s.now())
}

func (s *BillSyncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *BillSyncer) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return 1
}

func (s *BillSyncer) trigger() string {
	if s.Trigger != "" {
		return s.Trigger
	}
	return TriggerLazy
}
