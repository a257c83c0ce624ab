package model

import (
	"time"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

type Answer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	QuestionID int64     `gorm:"column:question_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Content    string    `gorm:"type:longtext;not null"`
	CreatedAt  time.Time `gorm:"type:datetime"`
	UpdatedAt  time.Time `gorm:"type:datetime"`
}

func (Answer) TableName() string {
	return "answer"
}

func (m *Answer) ToDomain() domain.Answer {
	return domain.Answer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		Content:    m.Content,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		User: domain.User{
			ID: m.UserID,
		},
	}
}

func NewAnswerFromDomain(a *domain.Answer) *Answer {
	return &Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.User.ID,
		Content:    a.Content,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
