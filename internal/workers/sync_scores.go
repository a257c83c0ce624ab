package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

// syncScoresWorker batches freshly recounted tallies into the score cache
// so the vote request path never waits on redis.
type syncScoresWorker struct {
	cache domain.ScoreCache
	ch    chan domain.ScoreUpdate
}

var _ domain.SyncScoresWorker = (*syncScoresWorker)(nil)

func NewSyncScoresWorker(cache domain.ScoreCache) *syncScoresWorker {
	return &syncScoresWorker{
		cache: cache,
		ch:    make(chan domain.ScoreUpdate, 1024),
	}
}

// Send enqueues one update without blocking the caller.
func (s *syncScoresWorker) Send(update domain.ScoreUpdate) {
	select {
	case s.ch <- update:
	default:
		logrus.Info("SyncScoresWorker's channel is full, update dropped")
	}
}

func (s *syncScoresWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	const batchSize = 100
	batch := make([]domain.ScoreUpdate, 0, batchSize)
	for {
		select {
		case update := <-s.ch:
			batch = append(batch, update)
			if len(batch) == batchSize {
				s.flush(batch)
				batch = make([]domain.ScoreUpdate, 0, batchSize)
			}
		case <-ticker.C:
			s.flush(batch)
			batch = make([]domain.ScoreUpdate, 0)
		case <-ctx.Done():
			logrus.Info("shutting down SyncScoresWorker, flushing remaining updates...")
			s.flush(batch)
			return
		}
	}
}

type targetKey struct {
	targetType domain.TargetType
	targetID   int64
}

// flush dedups the batch per target, keeping only the newest tally.
func (s *syncScoresWorker) flush(batch []domain.ScoreUpdate) {
	if len(batch) == 0 {
		return
	}

	latest := make(map[targetKey]domain.VoteTally)
	for i := range batch {
		key := targetKey{
			targetType: batch[i].TargetType,
			targetID:   batch[i].TargetID,
		}
		latest[key] = batch[i].Tally
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for key, tally := range latest {
		if err := s.cache.SetTally(ctx, key.targetType, key.targetID, tally); err != nil {
			logrus.Errorf("failed to sync score for %s %d: %v", key.targetType, key.targetID, err)
		}
	}
}
