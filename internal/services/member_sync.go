package services

import (
	"context"
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

// SyncStats summarizes one roster or contact sync.
type SyncStats struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// MemberSyncer loads the member roster and refreshes contact details.
type MemberSyncer struct {
	DB       *gorm.DB
	Upstream MemberUpstream

	// PageSize is the roster page size requested upstream (max 250).
	PageSize    int
	Concurrency int
	Trigger     string

	Now func() time.Time
}

// NewMemberSyncer returns a syncer that reads the roster in pages of 250.
func NewMemberSyncer(db *gorm.DB, up MemberUpstream) *MemberSyncer {
	return &MemberSyncer{DB: db, Upstream: up, PageSize: 250, Concurrency: 4, Trigger: TriggerCLI}
}

// SyncRoster pages through the current members of a congress and upserts
// them. When chamber is set, members of the other chamber are skipped.
// Only a failure to fetch a roster page is returned as an error; the stats
// gathered so far are returned with it.
func (s *MemberSyncer) SyncRoster(ctx context.Context, congressNum int, chamber domain.Chamber) (SyncStats, error) {
	tr := otel.Tracer("services/MemberSyncer")
	ctx, span := tr.Start(ctx, "SyncRoster",
		trace.WithAttributes(
			attribute.Int("congress", congressNum),
			attribute.String("chamber", string(chamber)),
		),
	)
	defer span.End()

	observability.SyncRuns.WithLabelValues("members", s.trigger()).Inc()
	logger := log.With().Str("kind", "members").Int("congress", congressNum).Logger()

	var stats SyncStats
	size := s.PageSize
	if size <= 0 || size > 250 {
		size = 250
	}
	now := s.now()
	for offset := 0; ; {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		recs, pg, err := s.Upstream.ListMembers(ctx, congressNum, size, offset)
		if err != nil {
			span.RecordError(err)
			logger.Error().Err(err).Int("offset", offset).Msg("roster page fetch failed")
			return stats, err
		}
		for _, r := range recs {
			stats.Total++
			m, err := congress.ToMember(r, now)
			if err != nil {
				stats.Skipped++
				observability.SyncSkipped.WithLabelValues("members", "malformed").Inc()
				logger.Warn().Err(err).Str("bioguide_id", r.BioguideID).Msg("member skipped")
				continue
			}
			if chamber != "" && m.Chamber != chamber {
				stats.Skipped++
				continue
			}
			if err := repo.UpsertMember(ctx, s.DB, m); err != nil {
				stats.Failed++
				logger.Error().Err(err).Str("bioguide_id", m.BioguideID).Msg("member upsert failed")
				continue
			}
			stats.Imported++
		}
		offset += len(recs)
		if len(recs) < size || (pg.Count > 0 && offset >= pg.Count) {
			break
		}
	}

	observability.SyncedRecords.WithLabelValues("members").Add(float64(stats.Imported))
	logger.Info().
		Int("total", stats.Total).
		Int("imported", stats.Imported).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("roster sync finished")
	return stats, nil
}

// SyncContacts refetches the detail record of every stored member (of one
// chamber, when set) and writes phone, office address and website. A failed
// member is counted and logged; the pass continues.
func (s *MemberSyncer) SyncContacts(ctx context.Context, chamber domain.Chamber) (SyncStats, error) {
	tr := otel.Tracer("services/MemberSyncer")
	ctx, span := tr.Start(ctx, "SyncContacts", trace.WithAttributes(attribute.String("chamber", string(chamber))))
	defer span.End()

	observability.SyncRuns.WithLabelValues("contacts", s.trigger()).Inc()

	ids, err := repo.ListMemberIDs(ctx, s.DB, chamber)
	if err != nil {
		return SyncStats{}, err
	}

	var imported, skipped, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(max(s.Concurrency, 1))
	for _, id := range ids {
		g.Go(func() error {
			rec, err := s.Upstream.Member(ctx, id)
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("bioguide_id", id).Msg("contact fetch failed")
				return nil
			}
			phone := rec.AddressInformation.PhoneNumber
			addr := rec.AddressInformation.OfficeAddress
			site := rec.OfficialWebsiteURL
			if phone == "" && addr == "" && site == "" {
				skipped.Add(1)
				observability.SyncSkipped.WithLabelValues("contacts", "empty").Inc()
				return nil
			}
			if err := repo.UpdateMemberContact(ctx, s.DB, id, phone, addr, site, s.now()); err != nil {
				failed.Add(1)
				log.Error().Err(err).Str("bioguide_id", id).Msg("contact update failed")
				return nil
			}
			imported.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats := SyncStats{
		Total:    len(ids),
		Imported: int(imported.Load()),
		Skipped:  int(skipped.Load()),
		Failed:   int(failed.Load()),
	}
	observability.SyncedRecords.WithLabelValues("contacts").Add(float64(stats.Imported))
	log.Info().
		Str("kind", "contacts").
		Int("total", stats.Total).
		Int("updated", stats.Imported).
		Int("failed", stats.Failed).
		Msg("contact sync finished")
	return stats, nil
}

func (s *MemberSyncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *MemberSyncer) trigger() string {
	if s.Trigger != "" {
		return s.Trigger
	}
	return TriggerCLI
}
