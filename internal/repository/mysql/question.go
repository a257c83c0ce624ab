package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql/model"
)

type questionRepository struct {
	DB *gorm.DB
}

var _ domain.QuestionRepository = (*questionRepository)(nil)

func NewQuestionRepository(db *gorm.DB) *questionRepository {
	return &questionRepository{db}
}

func (m *questionRepository) Fetch(ctx context.Context, offset, limit int64) (res []domain.Question, err error) {
	var questions []model.Question
	repository.LimitVerify(&limit)

	err = m.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&questions).Error
	if err != nil {
		return
	}

	for i := range questions {
		res = append(res, questions[i].ToDomain())
	}
	return
}

func (m *questionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := m.DB.WithContext(ctx).Model(&model.Question{}).Count(&total).Error
	return total, err
}

func (m *questionRepository) GetByID(ctx context.Context, id int64) (res domain.Question, err error) {
	var question model.Question
	err = m.DB.WithContext(ctx).First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, domain.ErrNotFound
		}
		return res, err
	}
	res = question.ToDomain()
	return
}

func (m *questionRepository) Store(ctx context.Context, q *domain.Question) (err error) {
	questionModel := model.NewQuestionFromDomain(q)
	result := m.DB.WithContext(ctx).Create(questionModel)
	if result.Error != nil {
		return result.Error
	}
	q.ID = questionModel.ID
	q.CreatedAt = questionModel.CreatedAt
	q.UpdatedAt = questionModel.UpdatedAt
	return
}

func (m *questionRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FetchIDs pages over question IDs by ascending id, used to seed the bloom filter.
func (m *questionRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	var ids []int64
	err := m.DB.WithContext(ctx).Model(&model.Question{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return ids, err
}
