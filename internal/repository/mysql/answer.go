package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql/model"
)

type answerRepository struct {
	DB *gorm.DB
}

var _ domain.AnswerRepository = (*answerRepository)(nil)

func NewAnswerRepository(db *gorm.DB) *answerRepository {
	return &answerRepository{
		DB: db,
	}
}

func (m *answerRepository) Store(ctx context.Context, a *domain.Answer) error {
	answerModel := model.NewAnswerFromDomain(a)
	result := m.DB.WithContext(ctx).Create(answerModel)
	if result.Error != nil {
		return result.Error
	}
	a.ID = answerModel.ID
	a.CreatedAt = answerModel.CreatedAt
	a.UpdatedAt = answerModel.UpdatedAt
	return nil
}

func (m *answerRepository) GetByID(ctx context.Context, id int64) (domain.Answer, error) {
	var answer model.Answer
	err := m.DB.WithContext(ctx).First(&answer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Answer{}, domain.ErrNotFound
		}
		return domain.Answer{}, err
	}
	return answer.ToDomain(), nil
}

func (m *answerRepository) FetchByQuestion(ctx context.Context, questionID int64) ([]domain.Answer, error) {
	var answers []model.Answer
	err := m.DB.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Answer, len(answers))
	for i := range answers {
		res[i] = answers[i].ToDomain()
	}
	return res, nil
}

func (m *answerRepository) Update(ctx context.Context, a *domain.Answer) error {
	answerModel := model.NewAnswerFromDomain(a)
	result := m.DB.WithContext(ctx).Model(answerModel).Updates(answerModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *answerRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Answer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *answerRepository) CountByQuestions(ctx context.Context, questionIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(questionIDs))
	if len(questionIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		QuestionID int64
		Total      int64
	}
	err := m.DB.WithContext(ctx).Model(&model.Answer{}).
		Select("question_id, COUNT(*) AS total").
		Where("question_id IN ?", questionIDs).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.QuestionID] = row.Total
	}
	return counts, nil
}
