package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// scoreRepository coordinates the score cache and the vote ledger: cache
// hit wins, a miss triggers a full recount that is deduplicated with
// singleflight so a hot target is only rescanned once at a time.
type scoreRepository struct {
	cache        domain.ScoreCache
	votes        domain.VoteRepository
	recountGroup singleflight.Group
}

var _ domain.ScoreRepository = (*scoreRepository)(nil)

func NewScoreRepository(cache domain.ScoreCache, votes domain.VoteRepository) *scoreRepository {
	return &scoreRepository{
		cache: cache,
		votes: votes,
	}
}

func (r *scoreRepository) Get(ctx context.Context, targetType domain.TargetType, targetID int64) (domain.VoteTally, error) {
	tally, err := r.cache.GetTally(ctx, targetType, targetID)
	if err == nil {
		return tally, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("score cache get error: %v", err)
	}

	return r.recount(ctx, targetType, targetID)
}

func (r *scoreRepository) GetMany(ctx context.Context, targetType domain.TargetType, targetIDs []int64) (map[int64]domain.VoteTally, error) {
	res, err := r.cache.MGetTallies(ctx, targetType, targetIDs)
	if err != nil {
		logrus.Warnf("score cache mget error: %v", err)
		res = make(map[int64]domain.VoteTally, len(targetIDs))
	}

	var missed []int64
	for _, id := range targetIDs {
		if _, ok := res[id]; !ok {
			missed = append(missed, id)
		}
	}
	if len(missed) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range missed {
		id := id
		g.Go(func() error {
			tally, err := r.recount(ctx, targetType, id)
			if err != nil {
				return err
			}
			mu.Lock()
			res[id] = tally
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *scoreRepository) recount(ctx context.Context, targetType domain.TargetType, targetID int64) (domain.VoteTally, error) {
	key := fmt.Sprintf("%s:%d", targetType, targetID)
	v, err, _ := r.recountGroup.Do(key, func() (interface{}, error) {
		tally, err := r.votes.CountByTarget(ctx, targetType, targetID)
		if err != nil {
			return domain.VoteTally{}, err
		}

		go func(t domain.VoteTally) {
			if err := r.cache.SetTally(context.Background(), targetType, targetID, t); err != nil {
				logrus.Warnf("failed to set score cache: %v", err)
			}
		}(tally)

		return tally, nil
	})
	if err != nil {
		return domain.VoteTally{}, err
	}
	return v.(domain.VoteTally), nil
}
