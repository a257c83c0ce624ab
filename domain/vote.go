package domain

import (
	"context"
	"time"
)

// TargetType tells whether a vote lands on a question or an answer.
type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

func (t TargetType) Valid() bool {
	return t == TargetQuestion || t == TargetAnswer
}

// VoteDirection is the polarity of a single vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Vote is one row of the vote ledger.
// Invariant: at most one Vote per (UserID, TargetType, TargetID) at any time.
type Vote struct {
	ID         int64
	UserID     int64
	TargetType TargetType
	TargetID   int64
	Direction  VoteDirection
	CreatedAt  time.Time
}

// VoteTally is the aggregate derived from the full ledger of one target.
// Score always equals Upvotes - Downvotes.
type VoteTally struct {
	Score     int64 `json:"score"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// VoteResult is what a toggle returns to the caller: the authoritative
// recounted tally plus the caller's resulting vote (nil after a retract).
type VoteResult struct {
	VoteTally
	CallerVote *VoteDirection
}

// VoteRepository is the ledger store: one row per (voter, target).
type VoteRepository interface {
	// GetByVoterAndTarget returns the voter's existing vote on the target.
	// Returns ErrNotFound when the voter has no vote there.
	GetByVoterAndTarget(ctx context.Context, voterID int64, targetType TargetType, targetID int64) (Vote, error)

	// Store creates a new vote row and backfills its ID.
	Store(ctx context.Context, v *Vote) error

	// UpdateDirection flips the direction of an existing vote in place.
	UpdateDirection(ctx context.Context, id int64, direction VoteDirection) error

	// Delete removes a vote row.
	Delete(ctx context.Context, id int64) error

	// CountByTarget recounts the tally from the full current ledger state.
	CountByTarget(ctx context.Context, targetType TargetType, targetID int64) (VoteTally, error)

	// Transaction runs fn against a repository bound to one database
	// transaction, so a toggle's mutation and recount commit as one unit.
	Transaction(ctx context.Context, fn func(VoteRepository) error) error
}

// VoteUsecase is the vote aggregator: it owns the cast/switch/retract
// toggle state machine.
type VoteUsecase interface {
	// Cast applies one toggle step for (voterID, target):
	// no existing vote -> create, same direction -> retract,
	// opposite direction -> switch. The returned tally is recounted from
	// the full ledger after the mutation.
	// Returns ErrNotFound if the target doesn't exist,
	// ErrSelfVote if the voter authored the target,
	// ErrBadParamInput on an invalid direction or target type.
	Cast(ctx context.Context, voterID int64, targetType TargetType, targetID int64, direction VoteDirection) (VoteResult, error)

	// CallerVote reports the voter's current vote on the target, nil if none.
	CallerVote(ctx context.Context, voterID int64, targetType TargetType, targetID int64) (*VoteDirection, error)
}

// ScoreCache caches recounted tallies so list views don't rescan the ledger.
type ScoreCache interface {
	// GetTally returns ErrCacheMiss when the target is not cached.
	GetTally(ctx context.Context, targetType TargetType, targetID int64) (VoteTally, error)

	// MGetTallies returns the cached subset; missing IDs are absent from the map.
	MGetTallies(ctx context.Context, targetType TargetType, targetIDs []int64) (map[int64]VoteTally, error)

	SetTally(ctx context.Context, targetType TargetType, targetID int64, tally VoteTally) error
	DeleteTally(ctx context.Context, targetType TargetType, targetID int64) error
}

// ScoreRepository serves read-path tallies, combining the cache with a
// ledger recount on miss.
type ScoreRepository interface {
	Get(ctx context.Context, targetType TargetType, targetID int64) (VoteTally, error)
	GetMany(ctx context.Context, targetType TargetType, targetIDs []int64) (map[int64]VoteTally, error)
}
