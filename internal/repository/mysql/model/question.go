package model

import (
	"time"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

type Question struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:longtext;not null"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	CreatedAt   time.Time `gorm:"type:datetime"`
	UpdatedAt   time.Time `gorm:"type:datetime"`
}

func (Question) TableName() string {
	return "question"
}

func (m *Question) ToDomain() domain.Question {
	return domain.Question{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		User: domain.User{
			ID: m.UserID,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func NewQuestionFromDomain(q *domain.Question) *Question {
	return &Question{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		UserID:      q.User.ID,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}
