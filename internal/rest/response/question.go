package response

import "github.com/Himanshusingh9647/stackit-qa-platform/domain"

type Question struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Score       int64  `json:"score"`
	Upvotes     int64  `json:"upvotes"`
	Downvotes   int64  `json:"downvotes"`
	AnswerCount int64  `json:"answer_count"`
}

// NewQuestionFromDomain: Domain -> Response
func NewQuestionFromDomain(q *domain.Question) Question {
	return Question{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Author:      q.User.Username,
		CreatedAt:   q.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:   q.UpdatedAt.Format(DateTimeFormat),
		Score:       q.Tally.Score,
		Upvotes:     q.Tally.Upvotes,
		Downvotes:   q.Tally.Downvotes,
		AnswerCount: q.AnswerCount,
	}
}

type QuestionDetail struct {
	Question
	Answers []Answer `json:"answers"`
}

func NewQuestionDetailFromDomain(d *domain.QuestionDetail) QuestionDetail {
	answers := make([]Answer, len(d.Answers))
	for i := range d.Answers {
		answers[i] = NewAnswerFromDomain(&d.Answers[i])
	}
	return QuestionDetail{
		Question: NewQuestionFromDomain(&d.Question),
		Answers:  answers,
	}
}
