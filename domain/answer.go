package domain

import (
	"context"
	"time"
)

// Answer domain model
type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// User is the answer author's information.
	User User `json:"-"`

	// Tally is derived per view from the vote ledger.
	Tally VoteTally `json:"-"`
}

// AnswerRepository defines the data access contract for answers.
type AnswerRepository interface {
	Store(ctx context.Context, a *Answer) error

	// GetByID returns ErrNotFound if the answer doesn't exist.
	GetByID(ctx context.Context, id int64) (Answer, error)

	// FetchByQuestion returns all answers of a question, oldest first.
	FetchByQuestion(ctx context.Context, questionID int64) ([]Answer, error)

	Update(ctx context.Context, a *Answer) error

	Delete(ctx context.Context, id int64) error

	// CountByQuestions returns answer counts keyed by question ID.
	CountByQuestions(ctx context.Context, questionIDs []int64) (map[int64]int64, error)
}

// AnswerUsecase is the business logic contract for answers.
type AnswerUsecase interface {
	// Store persists a new answer on an existing question, notifies the
	// question author and broadcasts the answer to the question's viewers.
	// Returns ErrNotFound if the question doesn't exist.
	Store(ctx context.Context, a *Answer) error

	// Update edits an answer when the caller owns it or is an admin.
	Update(ctx context.Context, id int64, content string, callerID int64, isAdmin bool) (Answer, error)

	// Delete removes an answer when the caller owns it or is an admin.
	Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error
}
