package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// BillFilter narrows a bill search. Zero values are ignored.
type BillFilter struct {
	Congress     int
	Type         string
	SponsorID    string
	SponsorParty string
	Subject      string
	Query        string
}

// UpsertBill inserts b or replaces the stored row with the same bill_id.
func UpsertBill(ctx context.Context, db *gorm.DB, b *domain.Bill) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "bill_id"}}, UpdateAll: true}).
		Create(b).Error
}

// GetBill fetches a bill by id or returns ErrNotFound.
func GetBill(ctx context.Context, db *gorm.DB, id string) (*domain.Bill, error) {
	var b domain.Bill
	if err := db.WithContext(ctx).Where("bill_id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FreshBillIDs returns which of ids were updated at or after since.
func FreshBillIDs(ctx context.Context, db *gorm.DB, ids []string, since time.Time) (map[string]struct{}, error) {
	return freshIDs(ctx, db, &domain.Bill{}, "bill_id", ids, since)
}

// CountBills returns how many bills satisfy f.
func CountBills(ctx context.Context, db *gorm.DB, f BillFilter) (int64, error) {
	var total int64
	err := billScope(db.WithContext(ctx).Model(&domain.Bill{}), f).Count(&total).Error
	return total, err
}

// ListBillsPage returns bills satisfying f, most recently introduced first.
func ListBillsPage(ctx context.Context, db *gorm.DB, f BillFilter, offset, limit int) ([]domain.Bill, error) {
	var out []domain.Bill
	err := billScope(db.WithContext(ctx), f).
		Order("introduced_date DESC, bill_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

func billScope(q *gorm.DB, f BillFilter) *gorm.DB {
	if f.Congress > 0 {
		q = q.Where("congress = ?", f.Congress)
	}
	if t := strings.ToLower(strings.TrimSpace(f.Type)); t != "" {
		q = q.Where("type = ?", t)
	}
	if s := strings.ToUpper(strings.TrimSpace(f.SponsorID)); s != "" {
		q = q.Where("sponsor_id = ?", s)
	}
	if p := strings.ToUpper(strings.TrimSpace(f.SponsorParty)); p != "" {
		q = q.Where("sponsor_id IN (?)", q.Session(&gorm.Session{NewDB: true}).
			Model(&domain.Member{}).Select("bioguide_id").Where("party = ?", p))
	}
	if s := strings.TrimSpace(f.Subject); s != "" {
		pat := "%" + escapeLike(s) + "%"
		q = q.Where("(lower(policy_area) LIKE lower(?) "+likeEsc+" OR lower(legislative_subjects) LIKE lower(?) "+likeEsc+")", pat, pat)
	}
	for _, w := range strings.Fields(f.Query) {
		pat := "%" + escapeLike(w) + "%"
		q = q.Where("(lower(title) LIKE lower(?) "+likeEsc+" OR lower(short_title) LIKE lower(?) "+likeEsc+" OR lower(summary_text) LIKE lower(?) "+likeEsc+")", pat, pat, pat)
	}
	return q
}

func freshIDs(ctx context.Context, db *gorm.DB, model any, key string, ids []string, since time.Time) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := db.WithContext(ctx).Model(model).
		Where(key+" IN ? AND updated_at >= ?", ids, since).
		Pluck(key, &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}
