package vote

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// lockStripes bounds the number of mutexes backing per-(voter, target)
// serialization. Two different keys may share a stripe and wait on each
// other, but a single key always maps to the same stripe, which is what
// the toggle needs.
const lockStripes = 256

// Service is the vote aggregator. It owns the cast/switch/retract toggle
// state machine and guarantees that the check-mutate-recount sequence for
// one (voter, target) key never interleaves with itself.
type Service struct {
	voteRepo     domain.VoteRepository
	questionRepo domain.QuestionRepository
	answerRepo   domain.AnswerRepository
	broadcaster  domain.Broadcaster
	scoreSyncer  domain.SyncScoresWorker

	locks [lockStripes]sync.Mutex
}

var _ domain.VoteUsecase = (*Service)(nil)

func NewService(v domain.VoteRepository, q domain.QuestionRepository, a domain.AnswerRepository, b domain.Broadcaster, s domain.SyncScoresWorker) *Service {
	return &Service{
		voteRepo:     v,
		questionRepo: q,
		answerRepo:   a,
		broadcaster:  b,
		scoreSyncer:  s,
	}
}

func (s *Service) lockFor(voterID int64, targetType domain.TargetType, targetID int64) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d:%s:%d", voterID, targetType, targetID)
	return &s.locks[h.Sum32()%lockStripes]
}

// resolveTarget loads the target's author (for the self-vote check) and the
// question whose topic receives the fanout.
func (s *Service) resolveTarget(ctx context.Context, targetType domain.TargetType, targetID int64) (authorID, questionID int64, err error) {
	switch targetType {
	case domain.TargetQuestion:
		q, err := s.questionRepo.GetByID(ctx, targetID)
		if err != nil {
			return 0, 0, err
		}
		return q.User.ID, q.ID, nil
	case domain.TargetAnswer:
		a, err := s.answerRepo.GetByID(ctx, targetID)
		if err != nil {
			return 0, 0, err
		}
		return a.User.ID, a.QuestionID, nil
	default:
		return 0, 0, domain.ErrBadParamInput
	}
}

// Cast applies one toggle step and returns the authoritative tally
// recounted from the full ledger state after the mutation.
func (s *Service) Cast(ctx context.Context, voterID int64, targetType domain.TargetType, targetID int64, direction domain.VoteDirection) (domain.VoteResult, error) {
	if !direction.Valid() || !targetType.Valid() {
		return domain.VoteResult{}, domain.ErrBadParamInput
	}

	authorID, questionID, err := s.resolveTarget(ctx, targetType, targetID)
	if err != nil {
		return domain.VoteResult{}, err
	}
	if authorID == voterID {
		return domain.VoteResult{}, domain.ErrSelfVote
	}

	// Serialize the whole read-check-mutate-recount sequence per key:
	// unserialized interleaving here is the double-cast / lost-retract race.
	mu := s.lockFor(voterID, targetType, targetID)
	mu.Lock()
	defer mu.Unlock()

	var result domain.VoteResult
	err = s.voteRepo.Transaction(ctx, func(repo domain.VoteRepository) error {
		existing, err := repo.GetByVoterAndTarget(ctx, voterID, targetType, targetID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// none -> cast
			if err := repo.Store(ctx, &domain.Vote{
				UserID:     voterID,
				TargetType: targetType,
				TargetID:   targetID,
				Direction:  direction,
			}); err != nil {
				return err
			}
			d := direction
			result.CallerVote = &d
		case err != nil:
			return err
		case existing.Direction == direction:
			// same -> retract
			if err := repo.Delete(ctx, existing.ID); err != nil {
				return err
			}
			result.CallerVote = nil
		default:
			// other -> switch
			if err := repo.UpdateDirection(ctx, existing.ID, direction); err != nil {
				return err
			}
			d := direction
			result.CallerVote = &d
		}

		tally, err := repo.CountByTarget(ctx, targetType, targetID)
		if err != nil {
			return err
		}
		result.VoteTally = tally
		return nil
	})
	if err != nil {
		return domain.VoteResult{}, err
	}

	s.scoreSyncer.Send(domain.ScoreUpdate{
		TargetType: targetType,
		TargetID:   targetID,
		Tally:      result.VoteTally,
	})
	s.broadcaster.Publish(domain.QuestionTopic(questionID), domain.VoteUpdated{
		TargetType: targetType,
		TargetID:   targetID,
		Score:      result.Score,
		Upvotes:    result.Upvotes,
		Downvotes:  result.Downvotes,
		CallerVote: result.CallerVote,
	})

	return result, nil
}

// CallerVote reports the voter's current vote on the target, nil if none.
func (s *Service) CallerVote(ctx context.Context, voterID int64, targetType domain.TargetType, targetID int64) (*domain.VoteDirection, error) {
	if !targetType.Valid() {
		return nil, domain.ErrBadParamInput
	}

	existing, err := s.voteRepo.GetByVoterAndTarget(ctx, voterID, targetType, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	d := existing.Direction
	return &d, nil
}
