package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql/model"
)

// voteRepository is the ledger store: one row per (voter, target).
type voteRepository struct {
	DB *gorm.DB
}

var _ domain.VoteRepository = (*voteRepository)(nil)

func NewVoteRepository(db *gorm.DB) *voteRepository {
	return &voteRepository{
		DB: db,
	}
}

func (m *voteRepository) GetByVoterAndTarget(ctx context.Context, voterID int64, targetType domain.TargetType, targetID int64) (domain.Vote, error) {
	var vote model.Vote
	err := m.DB.WithContext(ctx).
		First(&vote, "user_id = ? AND target_type = ? AND target_id = ?", voterID, string(targetType), targetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vote{}, domain.ErrNotFound
		}
		return domain.Vote{}, err
	}
	return vote.ToDomain(), nil
}

func (m *voteRepository) Store(ctx context.Context, v *domain.Vote) error {
	voteModel := model.NewVoteFromDomain(v)
	result := m.DB.WithContext(ctx).Create(voteModel)
	if result.Error != nil {
		return result.Error
	}
	v.ID = voteModel.ID
	v.CreatedAt = voteModel.CreatedAt
	return nil
}

func (m *voteRepository) UpdateDirection(ctx context.Context, id int64, direction domain.VoteDirection) error {
	result := m.DB.WithContext(ctx).Model(&model.Vote{}).
		Where("id = ?", id).
		Update("direction", string(direction))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *voteRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Vote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByTarget recounts the tally from every ledger row of the target.
func (m *voteRepository) CountByTarget(ctx context.Context, targetType domain.TargetType, targetID int64) (domain.VoteTally, error) {
	var row struct {
		Upvotes   int64
		Downvotes int64
	}
	err := m.DB.WithContext(ctx).Model(&model.Vote{}).
		Select("COALESCE(SUM(direction = 'up'), 0) AS upvotes, COALESCE(SUM(direction = 'down'), 0) AS downvotes").
		Where("target_type = ? AND target_id = ?", string(targetType), targetID).
		Scan(&row).Error
	if err != nil {
		return domain.VoteTally{}, err
	}
	return domain.VoteTally{
		Score:     row.Upvotes - row.Downvotes,
		Upvotes:   row.Upvotes,
		Downvotes: row.Downvotes,
	}, nil
}

// Transaction binds fn to one database transaction so a toggle's mutation
// and recount commit or roll back as a unit.
func (m *voteRepository) Transaction(ctx context.Context, fn func(domain.VoteRepository) error) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&voteRepository{DB: tx})
	})
}
