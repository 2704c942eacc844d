package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-congress-backend/internal/domain"
)

// VoteFilter narrows a vote search. Zero values are ignored.
type VoteFilter struct {
	Chamber  domain.Chamber
	Congress int
	Session  int
	BillID   string
}

// UpsertVote replaces the vote row and its member positions atomically.
func UpsertVote(ctx context.Context, db *gorm.DB, v *domain.Vote) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "vote_id"}}, UpdateAll: true}).
			Create(v).Error; err != nil {
			return err
		}
		if err := tx.Where("vote_id = ?", v.VoteID).Delete(&domain.MemberVote{}).Error; err != nil {
			return err
		}
		rows := v.Rows()
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

// GetVote fetches a vote with its member positions, or ErrNotFound.
func GetVote(ctx context.Context, db *gorm.DB, id string) (*domain.Vote, error) {
	var v domain.Vote
	if err := db.WithContext(ctx).Where("vote_id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	var rows []domain.MemberVote
	if err := db.WithContext(ctx).Where("vote_id = ?", id).Order("bioguide_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	v.MemberVotes = make(map[string]domain.Position, len(rows))
	for _, r := range rows {
		v.MemberVotes[r.BioguideID] = r.Position
	}
	return &v, nil
}

// FreshVoteIDs returns which of ids were updated at or after since.
func FreshVoteIDs(ctx context.Context, db *gorm.DB, ids []string, since time.Time) (map[string]struct{}, error) {
	return freshIDs(ctx, db, &domain.Vote{}, "vote_id", ids, since)
}

// CountVotes returns how many votes satisfy f.
func CountVotes(ctx context.Context, db *gorm.DB, f VoteFilter) (int64, error) {
	var total int64
	err := voteScope(db.WithContext(ctx).Model(&domain.Vote{}), f).Count(&total).Error
	return total, err
}

// ListVotesPage returns votes satisfying f, newest first. Member positions
// are not loaded.
func ListVotesPage(ctx context.Context, db *gorm.DB, f VoteFilter, offset, limit int) ([]domain.Vote, error) {
	var out []domain.Vote
	err := voteScope(db.WithContext(ctx), f).
		Order("date DESC, vote_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountMemberVotes returns how many recorded positions a member has.
func CountMemberVotes(ctx context.Context, db *gorm.DB, bioguideID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.MemberVote{}).
		Where("bioguide_id = ?", bioguideID).
		Count(&total).Error
	return total, err
}

// ListMemberVotesPage returns a member's voting record, newest first.
func ListMemberVotesPage(ctx context.Context, db *gorm.DB, bioguideID string, offset, limit int) ([]domain.MemberVoteRecord, error) {
	var out []domain.MemberVoteRecord
	err := db.WithContext(ctx).
		Table("member_votes").
		Select("votes.vote_id, votes.chamber, votes.congress, votes.session, votes.date, votes.question, votes.result, votes.bill_id, member_votes.position").
		Joins("JOIN votes ON votes.vote_id = member_votes.vote_id").
		Where("member_votes.bioguide_id = ?", bioguideID).
		Order("votes.date DESC, votes.vote_id DESC").
		Offset(offset).
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func voteScope(q *gorm.DB, f VoteFilter) *gorm.DB {
	if f.Chamber != "" {
		q = q.Where("chamber = ?", f.Chamber)
	}
	if f.Congress > 0 {
		q = q.Where("congress = ?", f.Congress)
	}
	if f.Session > 0 {
		q = q.Where("session = ?", f.Session)
	}
	if f.BillID != "" {
		q = q.Where("bill_id = ?", f.BillID)
	}
	return q
}
