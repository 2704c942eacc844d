package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

// VoteQuery is a roll-call search request. Zero values are ignored.
type VoteQuery struct {
	Chamber  domain.Chamber
	Congress int
	Session  int
	BillID   string
	Page     int
	PageSize int
}

// VoteService serves roll-call searches and lookups with the same lazy
// backfill as BillService.
type VoteService struct {
	DB     *gorm.DB
	Syncer VoteSync
	Scopes *ScopeTracker

	CurrentCongress int
	SyncBatch       int

	Now func() time.Time
}

// Search returns one page of roll calls, newest first.
func (s *VoteService) Search(ctx context.Context, q VoteQuery) (Page[domain.Vote], error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("chamber", string(q.Chamber)),
			attribute.Int("congress", q.Congress),
			attribute.Int("session", q.Session),
			attribute.Int("page", q.Page),
			attribute.Int("page_size", q.PageSize),
		),
	)
	defer span.End()

	page, size, offset := normalizePage(q.Page, q.PageSize)
	f := repo.VoteFilter{Chamber: q.Chamber, Congress: q.Congress, Session: q.Session, BillID: q.BillID}

	rows, total := s.query(ctx, f, offset, size)
	if len(rows) < size && s.Syncer != nil && s.Scopes != nil {
		c := q.Congress
		if c <= 0 {
			c = s.CurrentCongress
		}
		scope := voteScope(c)
		if c > 0 && !s.Scopes.Synced(scope) {
			n := 0
			for _, ch := range chambersFor(q.Chamber) {
				for _, sess := range s.sessionsFor(c, q.Session) {
					n += s.Syncer.Sync(ctx, c, sess, ch, s.batch())
				}
			}
			s.Scopes.MarkSynced(scope)
			span.SetAttributes(attribute.Int("synced", n))
			rows, total = s.query(ctx, f, offset, size)
		}
	}
	return NewPage(rows, total, page, size), nil
}

func (s *VoteService) query(ctx context.Context, f repo.VoteFilter, offset, limit int) ([]domain.Vote, int64) {
	total, err := repo.CountVotes(ctx, s.DB, f)
	if err != nil {
		log.Error().Err(err).Msg("vote count failed")
		return nil, 0
	}
	if total == 0 {
		return nil, 0
	}
	rows, err := repo.ListVotesPage(ctx, s.DB, f, offset, limit)
	if err != nil {
		log.Error().Err(err).Msg("vote list failed")
		return nil, 0
	}
	return rows, total
}

// Get returns a roll call with member positions by id ("h118-1-123").
// Votes missing locally are fetched upstream and stored.
func (s *VoteService) Get(ctx context.Context, id string) (*domain.Vote, error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("vote.id", id)))
	defer span.End()

	ch, c, sess, roll, err := domain.ParseVoteID(id)
	if err != nil {
		return nil, ErrInvalidVoteID
	}
	id = domain.VoteID(ch, c, sess, roll)

	v, err := repo.GetVote(ctx, s.DB, id)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if s.Syncer == nil {
		return nil, ErrVoteNotFound
	}
	v, err = s.Syncer.Fetch(ctx, ch, c, sess, roll, "")
	if err != nil {
		return nil, upstreamErr(err, ErrVoteNotFound)
	}
	if err := repo.UpsertVote(ctx, s.DB, v); err != nil {
		log.Error().Err(err).Str("vote_id", id).Msg("vote upsert failed")
	}
	return v, nil
}

// Recent returns the newest stored roll calls, optionally for one chamber.
func (s *VoteService) Recent(ctx context.Context, ch domain.Chamber, limit int) ([]domain.Vote, error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "Recent", trace.WithAttributes(attribute.String("chamber", string(ch))))
	defer span.End()

	_, size, _ := normalizePage(1, limit)
	rows, err := repo.ListVotesPage(ctx, s.DB, repo.VoteFilter{Chamber: ch}, 0, size)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Vote{}
	}
	return rows, nil
}

func chambersFor(ch domain.Chamber) []domain.Chamber {
	if ch != "" {
		return []domain.Chamber{ch}
	}
	return []domain.Chamber{domain.ChamberHouse, domain.ChamberSenate}
}

// sessionsFor lists the sessions to backfill. For the sitting congress only
// the session under way is synced; later sessions do not exist yet.
func (s *VoteService) sessionsFor(congressNum, session int) []int {
	if session > 0 {
		return []int{session}
	}
	if congressNum == s.CurrentCongress {
		return []int{CurrentSession(congressNum, s.now())}
	}
	return []int{1, 2}
}

// CurrentSession returns the session of congressNum that is under way at t.
// A congress convenes in January of the odd year 1789+2*(n-1).
func CurrentSession(congressNum int, t time.Time) int {
	start := 1789 + 2*(congressNum-1)
	if t.Year() > start {
		return 2
	}
	return 1
}

func (s *VoteService) batch() int {
	if s.SyncBatch > 0 {
		return s.SyncBatch
	}
	return 50
}

func (s *VoteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
