package services

import (
	"context"
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
	"github.com/tbourn/go-congress-backend/internal/senate"
)

// VoteSync backfills roll calls and fetches single ones.
type VoteSync interface {
	Sync(ctx context.Context, congressNum, session int, ch domain.Chamber, limit int) int
	Fetch(ctx context.Context, ch domain.Chamber, congressNum, session, roll int, sourceURL string) (*domain.Vote, error)
}

// VoteSyncer copies roll calls into the store. House positions carry
// bioguide ids; Senate positions come from the senate.gov XML and are
// resolved through Matcher.
type VoteSyncer struct {
	DB       *gorm.DB
	Upstream VoteUpstream
	Matcher  *NameMatcher

	Freshness   time.Duration
	Concurrency int
	Trigger     string

	Now func() time.Time
}

// NewVoteSyncer returns a syncer with a one-hour freshness window.
func NewVoteSyncer(db *gorm.DB, up VoteUpstream, m *NameMatcher) *VoteSyncer {
	return &VoteSyncer{DB: db, Upstream: up, Matcher: m, Freshness: time.Hour, Concurrency: 4, Trigger: TriggerLazy}
}

// Sync fetches up to limit roll calls of one chamber and session and
// upserts them. It never fails; the result is the number of votes written.
func (s *VoteSyncer) Sync(ctx context.Context, congressNum, session int, ch domain.Chamber, limit int) int {
	tr := otel.Tracer("services/VoteSyncer")
	ctx, span := tr.Start(ctx, "Sync",
		trace.WithAttributes(
			attribute.Int("congress", congressNum),
			attribute.Int("session", session),
			attribute.String("chamber", string(ch)),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	observability.SyncRuns.WithLabelValues("votes", s.trigger()).Inc()
	logger := log.With().
		Str("kind", "votes").
		Str("chamber", string(ch)).
		Int("congress", congressNum).
		Int("session", session).
		Logger()

	items, _, err := s.Upstream.ListVotes(ctx, ch, congressNum, session, limit, 0)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("vote list fetch failed")
		return 0
	}

	type ref struct {
		id                     string
		congress, session, num int
		sourceURL              string
	}
	refs := make([]ref, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		r := ref{
			congress:  int(it.Congress),
			session:   int(it.SessionNumber),
			num:       int(it.RollCallNumber),
			sourceURL: strings.TrimSpace(it.SourceDataURL),
		}
		if r.congress <= 0 {
			r.congress = congressNum
		}
		if r.session <= 0 {
			r.session = session
		}
		if r.num <= 0 || r.session <= 0 {
			observability.SyncSkipped.WithLabelValues("votes", "malformed").Inc()
			continue
		}
		r.id = domain.VoteID(ch, r.congress, r.session, r.num)
		refs = append(refs, r)
		ids = append(ids, r.id)
	}

	fresh, err := repo.FreshVoteIDs(ctx, s.DB, ids, s.now().Add(-s.Freshness))
	if err != nil {
		logger.Warn().Err(err).Msg("freshness check failed; refetching all")
		fresh = map[string]struct{}{}
	}

	var synced atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency())
	for _, r := range refs {
		if _, ok := fresh[r.id]; ok {
			observability.SyncSkipped.WithLabelValues("votes", "fresh").Inc()
			continue
		}
		g.Go(func() error {
			v, err := s.Fetch(ctx, ch, r.congress, r.session, r.num, r.sourceURL)
			if err != nil {
				observability.SyncSkipped.WithLabelValues("votes", "fetch_error").Inc()
				logger.Warn().Err(err).Str("vote_id", r.id).Msg("vote skipped")
				return nil
			}
			if err := repo.UpsertVote(ctx, s.DB, v); err != nil {
				observability.SyncSkipped.WithLabelValues("votes", "store_error").Inc()
				logger.Error().Err(err).Str("vote_id", r.id).Msg("vote upsert failed")
				return nil
			}
			synced.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	n := int(synced.Load())
	observability.SyncedRecords.WithLabelValues("votes").Add(float64(n))
	span.SetAttributes(attribute.Int("synced", n))
	logger.Info().Int("listed", len(items)).Int("synced", n).Msg("vote sync finished")
	return n
}

// Fetch loads and transforms one roll call.
func (s *VoteSyncer) Fetch(ctx context.Context, ch domain.Chamber, congressNum, session, roll int, sourceURL string) (*domain.Vote, error) {
	if ch == domain.ChamberSenate {
		return s.fetchSenate(ctx, congressNum, session, roll, sourceURL)
	}
	return s.fetchHouse(ctx, congressNum, session, roll)
}

func (s *VoteSyncer) fetchHouse(ctx context.Context, congressNum, session, roll int) (*domain.Vote, error) {
	var (
		rec     *congress.VoteRecord
		members []congress.HouseMemberVote
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		rec, err = s.Upstream.HouseVote(ctx, congressNum, session, roll)
		return err
	})
	g.Go(func() error {
		m, err := s.Upstream.HouseVoteMembers(ctx, congressNum, session, roll)
		if err != nil {
			log.Warn().Err(err).Str("vote_id", domain.VoteID(domain.ChamberHouse, congressNum, session, roll)).
				Msg("house member positions unavailable")
			return nil
		}
		members = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	v, err := congress.ToHouseVote(*rec, members, congressNum, session, roll, s.now())
	if err != nil {
		return nil, err
	}
	s.dropUnknownMembers(ctx, v)
	return v, nil
}

func (s *VoteSyncer) fetchSenate(ctx context.Context, congressNum, session, roll int, sourceURL string) (*domain.Vote, error) {
	raw, err := s.Upstream.SenateVoteXML(ctx, congressNum, session, roll, sourceURL)
	if err != nil {
		return nil, err
	}
	rc, err := senate.Parse(raw)
	if err != nil {
		return nil, err
	}

	docCongress := rc.DocumentCongress
	if docCongress <= 0 {
		docCongress = congressNum
	}
	v := domain.Vote{
		Chamber:     domain.ChamberSenate,
		Congress:    congressNum,
		Session:     session,
		RollNumber:  roll,
		Date:        rc.Date,
		Question:    rc.Question,
		Description: rc.Document,
		Result:      rc.Result,
		BillID:      congress.LegislationBillID(rc.DocumentType, rc.DocumentNumber, docCongress),
		Totals:      rc.Totals,
		MemberVotes: make(map[string]domain.Position, len(rc.Members)),
		UpdatedAt:   s.now(),
	}
	logger := log.With().Str("vote_id", domain.VoteID(domain.ChamberSenate, congressNum, session, roll)).Logger()
	for _, m := range rc.Members {
		pos, ok := domain.ParsePosition(m.VoteCast)
		if !ok {
			continue
		}
		id, ok := s.resolve(ctx, m)
		if !ok {
			observability.SyncSkipped.WithLabelValues("votes", "unmatched").Inc()
			logger.Warn().
				Str("first_name", m.FirstName).
				Str("last_name", m.LastName).
				Str("state", m.State).
				Str("lis_member_id", m.LISMemberID).
				Msg("senate position dropped: member not resolved")
			continue
		}
		v.MemberVotes[id] = pos
	}
	return domain.NewVote(v)
}

func (s *VoteSyncer) resolve(ctx context.Context, m senate.Member) (string, bool) {
	if s.Matcher == nil {
		return "", false
	}
	return s.Matcher.Resolve(ctx, m.FirstName, m.LastName, m.State, string(domain.ChamberSenate))
}

// dropUnknownMembers removes positions of members that are not stored, so
// member_votes only references known bioguide ids.
func (s *VoteSyncer) dropUnknownMembers(ctx context.Context, v *domain.Vote) {
	if len(v.MemberVotes) == 0 {
		return
	}
	ids := make([]string, 0, len(v.MemberVotes))
	for id := range v.MemberVotes {
		ids = append(ids, id)
	}
	known, err := repo.ExistingMemberIDs(ctx, s.DB, ids)
	if err != nil {
		log.Warn().Err(err).Str("vote_id", v.VoteID).Msg("member lookup failed; keeping all positions")
		return
	}
	dropped := 0
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			delete(v.MemberVotes, id)
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("vote_id", v.VoteID).Int("dropped", dropped).Msg("positions of unknown members dropped")
	}
}

func (s *VoteSyncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *VoteSyncer) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return 1
}

func (s *VoteSyncer) trigger() string {
	if s.Trigger != "" {
		return s.Trigger
	}
	return TriggerLazy
}
