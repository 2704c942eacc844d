package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-congress-backend/internal/domain"
	"github.com/tbourn/go-congress-backend/internal/search"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// memberOrder is the deterministic listing order for members.
const memberOrder = "last_name ASC, first_name ASC, bioguide_id ASC"

// UpsertMember inserts m or replaces the stored row with the same
// bioguide_id.
func UpsertMember(ctx context.Context, db *gorm.DB, m *domain.Member) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "bioguide_id"}}, UpdateAll: true}).
		Create(m).Error
}

// UpdateMemberContact writes the contact columns of one member. It returns
// ErrNotFound when the member is not stored.
func UpdateMemberContact(ctx context.Context, db *gorm.DB, id, phone, address, officialURL string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("bioguide_id = ?", id).
		Updates(map[string]any{
			"phone":        phone,
			"address":      address,
			"official_url": officialURL,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetMember fetches a member by bioguide id or returns ErrNotFound.
func GetMember(ctx context.Context, db *gorm.DB, id string) (*domain.Member, error) {
	var m domain.Member
	if err := db.WithContext(ctx).Where("bioguide_id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CountMembers returns how many members satisfy p.
func CountMembers(ctx context.Context, db *gorm.DB, p search.Predicate) (int64, error) {
	var total int64
	err := memberScope(db.WithContext(ctx).Model(&domain.Member{}), p).Count(&total).Error
	return total, err
}

// ListMembersPage returns members satisfying p in last, first, id order.
func ListMembersPage(ctx context.Context, db *gorm.DB, p search.Predicate, offset, limit int) ([]domain.Member, error) {
	var out []domain.Member
	err := memberScope(db.WithContext(ctx), p).
		Order(memberOrder).
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// FirstMember returns the member satisfying p with the smallest bioguide id,
// or ErrNotFound.
func FirstMember(ctx context.Context, db *gorm.DB, p search.Predicate) (*domain.Member, error) {
	var m domain.Member
	err := memberScope(db.WithContext(ctx), p).
		Order("bioguide_id ASC").
		Limit(1).
		Take(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMemberIDs returns the ids of every stored member in a chamber, or of
// all members when chamber is empty.
func ListMemberIDs(ctx context.Context, db *gorm.DB, chamber domain.Chamber) ([]string, error) {
	var ids []string
	q := db.WithContext(ctx).Model(&domain.Member{})
	if chamber != "" {
		q = q.Where("chamber = ?", chamber)
	}
	err := q.Order("bioguide_id ASC").Pluck("bioguide_id", &ids).Error
	return ids, err
}

// ExistingMemberIDs returns the subset of ids that are stored.
func ExistingMemberIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := db.WithContext(ctx).Model(&domain.Member{}).
		Where("bioguide_id IN ?", ids).
		Pluck("bioguide_id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}

// StateCount is the number of members per state.
type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

// CountMembersByState groups members by state, ordered by state code.
func CountMembersByState(ctx context.Context, db *gorm.DB) ([]StateCount, error) {
	var out []StateCount
	err := db.WithContext(ctx).Model(&domain.Member{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Order("state ASC").
		Scan(&out).Error
	return out, err
}

// GroupCount is the number of members per (party, chamber).
type GroupCount struct {
	Party   string `json:"party"`
	Chamber string `json:"chamber"`
	Count   int64  `json:"count"`
}

// CountMembersByPartyChamber groups members by party and chamber.
func CountMembersByPartyChamber(ctx context.Context, db *gorm.DB) ([]GroupCount, error) {
	var out []GroupCount
	err := db.WithContext(ctx).Model(&domain.Member{}).
		Select("party, chamber, COUNT(*) AS count").
		Group("party, chamber").
		Order("party ASC, chamber ASC").
		Scan(&out).Error
	return out, err
}

func memberScope(q *gorm.DB, p search.Predicate) *gorm.DB {
	if cond, args := whereSQL(p); cond != "" {
		q = q.Where(cond, args...)
	}
	return q
}
