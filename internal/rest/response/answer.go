package response

import "github.com/Himanshusingh9647/stackit-qa-platform/domain"

type Answer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	Author     string `json:"author"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	Score      int64  `json:"score"`
	Upvotes    int64  `json:"upvotes"`
	Downvotes  int64  `json:"downvotes"`
}

// NewAnswerFromDomain: Domain -> Response
func NewAnswerFromDomain(a *domain.Answer) Answer {
	return Answer{
		ID:         a.ID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
		Author:     a.User.Username,
		CreatedAt:  a.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:  a.UpdatedAt.Format(DateTimeFormat),
		Score:      a.Tally.Score,
		Upvotes:    a.Tally.Upvotes,
		Downvotes:  a.Tally.Downvotes,
	}
}
