package model

import (
	"time"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Type        string    `gorm:"type:varchar(30);not null"`
	Message     string    `gorm:"type:text;not null"`
	RecipientID int64     `gorm:"column:recipient_id;not null;index"`
	SenderID    int64     `gorm:"column:sender_id;default:0"`
	QuestionID  int64     `gorm:"column:question_id;default:0"`
	AnswerID    int64     `gorm:"column:answer_id;default:0"`
	IsRead      bool      `gorm:"column:is_read;default:false"`
	CreatedAt   time.Time `gorm:"type:datetime"`
}

func (Notification) TableName() string {
	return "notification"
}

func (m *Notification) ToDomain() domain.Notification {
	return domain.Notification{
		ID:          m.ID,
		Type:        domain.NotificationType(m.Type),
		Message:     m.Message,
		RecipientID: m.RecipientID,
		SenderID:    m.SenderID,
		QuestionID:  m.QuestionID,
		AnswerID:    m.AnswerID,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}

func NewNotificationFromDomain(n *domain.Notification) *Notification {
	return &Notification{
		ID:          n.ID,
		Type:        string(n.Type),
		Message:     n.Message,
		RecipientID: n.RecipientID,
		SenderID:    n.SenderID,
		QuestionID:  n.QuestionID,
		AnswerID:    n.AnswerID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
