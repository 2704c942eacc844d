package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/observability"
	"github.com/tbourn/go-congress-backend/internal/repo"
	"github.com/tbourn/go-congress-backend/internal/search"
)

// MatchCache memoizes resolved member ids by normalized name key.
type MatchCache interface {
	Get(key string) (string, bool)
	Put(key, bioguideID string)
	Reset()
}

// memoryMatchCache is an unbounded, mutex-guarded MatchCache. The member
// population is a few hundred rows, so it never needs eviction.
type memoryMatchCache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryMatchCache returns an empty in-process MatchCache.
func NewMemoryMatchCache() MatchCache {
	return &memoryMatchCache{m: make(map[string]string)}
}

func (c *memoryMatchCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.m[key]
	return id, ok
}

func (c *memoryMatchCache) Put(key, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = id
}

func (c *memoryMatchCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]string)
}

// NameMatcher resolves (first, last, state, chamber) tuples from feeds that
// carry no member id, such as the Senate roll-call XML, to bioguide ids.
type NameMatcher struct {
	DB    *gorm.DB
	Cache MatchCache
}

// NewNameMatcher returns a matcher backed by an in-memory cache.
func NewNameMatcher(db *gorm.DB) *NameMatcher {
	return &NameMatcher{DB: db, Cache: NewMemoryMatchCache()}
}

// MatchKey is the cache key of a name tuple.
func MatchKey(first, last, state, chamber string) string {
	return strings.ToLower(strings.Join([]string{
		domain.CollapseSpaces(last),
		domain.CollapseSpaces(first),
		strings.TrimSpace(state),
		strings.TrimSpace(chamber),
	}, "_"))
}

// Resolve returns the bioguide id of the member matching the tuple.
//
// Order: cache, exact first+last (case-insensitive), then last-name prefix
// (the stored last name starts with the given one, e.g. "Smith III" for
// "Smith"). State and chamber must match in both store lookups; ties go to
// the smallest bioguide id. A miss or a store error returns ("", false).
func (m *NameMatcher) Resolve(ctx context.Context, first, last, state, chamber string) (string, bool) {
	tr := otel.Tracer("services/NameMatcher")
	ctx, span := tr.Start(ctx, "Resolve",
		trace.WithAttributes(
			attribute.String("member.last_name", last),
			attribute.String("member.state", state),
			attribute.String("member.chamber", chamber),
		),
	)
	defer span.End()

	first = domain.CollapseSpaces(first)
	last = domain.CollapseSpaces(last)
	state = strings.ToUpper(strings.TrimSpace(state))
	chamber = strings.ToLower(strings.TrimSpace(chamber))
	if last == "" {
		observability.NameMatches.WithLabelValues("miss").Inc()
		return "", false
	}

	key := MatchKey(first, last, state, chamber)
	if m.Cache != nil {
		if id, ok := m.Cache.Get(key); ok {
			observability.NameMatches.WithLabelValues("cache").Inc()
			return id, true
		}
	}

	scope := search.AllOf(
		search.FieldExact{Field: search.FieldState, Value: state},
		search.FieldExact{Field: search.FieldChamber, Value: chamber},
	)

	exact := search.AllOf(scope,
		search.FieldExact{Field: search.FieldFirstName, Value: first, FoldCase: true},
		search.FieldExact{Field: search.FieldLastName, Value: last, FoldCase: true},
	)
	if id, err := m.first(ctx, exact); err != nil {
		return m.storeError(err, first, last, state, chamber)
	} else if id != "" {
		return m.hit(key, id, "exact"), true
	}

	prefix := search.AllOf(scope,
		search.FieldPrefix{Field: search.FieldLastName, Words: []string{last}, Anchor: search.AnchorStart},
	)
	if id, err := m.first(ctx, prefix); err != nil {
		return m.storeError(err, first, last, state, chamber)
	} else if id != "" {
		log.Info().
			Str("first_name", first).
			Str("last_name", last).
			Str("state", state).
			Str("chamber", chamber).
			Str("bioguide_id", id).
			Msg("partial name match")
		return m.hit(key, id, "prefix"), true
	}

	observability.NameMatches.WithLabelValues("miss").Inc()
	log.Warn().
		Str("first_name", first).
		Str("last_name", last).
		Str("state", state).
		Str("chamber", chamber).
		Msg("no member match")
	return "", false
}

// Reset clears the cache.
func (m *NameMatcher) Reset() {
	if m.Cache != nil {
		m.Cache.Reset()
	}
}

func (m *NameMatcher) first(ctx context.Context, p search.Predicate) (string, error) {
	mem, err := repo.FirstMember(ctx, m.DB, p)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return mem.BioguideID, nil
}

func (m *NameMatcher) hit(key, id, outcome string) string {
	if m.Cache != nil {
		m.Cache.Put(key, id)
	}
	observability.NameMatches.WithLabelValues(outcome).Inc()
	return id
}

func (m *NameMatcher) storeError(err error, first, last, state, chamber string) (string, bool) {
	observability.NameMatches.WithLabelValues("error").Inc()
	log.Error().Err(err).
		Str("first_name", first).
		Str("last_name", last).
		Str("state", state).
		Str("chamber", chamber).
		Msg("name match lookup failed")
	return "", false
}
