package domain

import (
	"context"
	"time"
)

// Question is representing the Question data struct
type Question struct {
	ID          int64     // Unique identifier for the question
	Title       string    // Question title
	Description string    // Question body content
	User        User      // Author information
	UpdatedAt   time.Time // Last update timestamp
	CreatedAt   time.Time // Creation timestamp

	// Derived per view, never persisted on the question row.
	Tally       VoteTally
	AnswerCount int64
}

// QuestionDetail is a question page view: the question with its answers.
type QuestionDetail struct {
	Question
	Answers []Answer
}

// Sort orders accepted by the question list.
const (
	SortNewest  = "newest"
	SortByScore = "score"
)

// QuestionRepository defines the contract for question data persistence
type QuestionRepository interface {
	// Fetch retrieves a page of questions ordered by creation time descending.
	Fetch(ctx context.Context, offset, limit int64) ([]Question, error)

	// Count returns the total number of questions.
	Count(ctx context.Context) (int64, error)

	// GetByID retrieves a single question by its ID.
	// Returns ErrNotFound if the question doesn't exist.
	GetByID(ctx context.Context, id int64) (Question, error)

	// Store creates a new question in the repository.
	Store(ctx context.Context, q *Question) error

	// Delete removes a question by its ID.
	// Returns ErrNotFound if not exists.
	Delete(ctx context.Context, id int64) error

	// FetchIDs pages over all question IDs, used to seed the bloom filter.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

type QuestionUsecase interface {
	// Fetch lists questions with their tallies and answer counts.
	// sort is SortNewest or SortByScore. Returns the page and the total count.
	Fetch(ctx context.Context, page, limit int64, sort string) ([]Question, int64, error)

	// GetByID returns the question with its answers, tallies filled in.
	// callerID fills CallerVote lookups on the rest layer side; 0 means anonymous.
	GetByID(ctx context.Context, id int64) (QuestionDetail, error)

	// Store persists a new question and broadcasts it.
	Store(ctx context.Context, q *Question) error

	// Delete removes a question when the caller owns it or is an admin.
	Delete(ctx context.Context, id int64, callerID int64, isAdmin bool) error

	// InitBloomFilter seeds the existence filter with all known question IDs.
	InitBloomFilter(ctx context.Context) error
}
