package response

import "github.com/Himanshusingh9647/stackit-qa-platform/domain"

type Notification struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	QuestionID int64  `json:"question_id,omitempty"`
	AnswerID   int64  `json:"answer_id,omitempty"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
	Sender     *User  `json:"sender,omitempty"`
}

// NewNotificationFromDomain: Domain -> Response
func NewNotificationFromDomain(n *domain.Notification) Notification {
	return Notification{
		ID:         n.ID,
		Type:       string(n.Type),
		Message:    n.Message,
		QuestionID: n.QuestionID,
		AnswerID:   n.AnswerID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt.Format(DateTimeFormat),
		Sender:     NewUserFromDomain(n.Sender),
	}
}
