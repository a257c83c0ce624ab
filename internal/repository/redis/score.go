package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Himanshusingh9647/stackit-qa-platform/domain"
)

const (
	scoreTTL = 10 * time.Minute
)

// scoreCache keeps the latest recounted tally per target so list views
// don't rescan the ledger. Values are only ever written from a full
// recount, so a hit is as authoritative as the recount that produced it.
type scoreCache struct {
	client *redis.Client
}

var _ domain.ScoreCache = (*scoreCache)(nil)

func NewScoreCache(client *redis.Client) *scoreCache {
	return &scoreCache{
		client: client,
	}
}

func scoreKey(targetType domain.TargetType, targetID int64) string {
	return fmt.Sprintf("score:%s:%d", targetType, targetID)
}

func (c *scoreCache) GetTally(ctx context.Context, targetType domain.TargetType, targetID int64) (domain.VoteTally, error) {
	data, err := c.client.Get(ctx, scoreKey(targetType, targetID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.VoteTally{}, domain.ErrCacheMiss
		}
		return domain.VoteTally{}, err
	}

	var tally domain.VoteTally
	if err := json.Unmarshal([]byte(data), &tally); err != nil {
		return domain.VoteTally{}, err
	}
	return tally, nil
}

func (c *scoreCache) MGetTallies(ctx context.Context, targetType domain.TargetType, targetIDs []int64) (map[int64]domain.VoteTally, error) {
	res := make(map[int64]domain.VoteTally, len(targetIDs))
	if len(targetIDs) == 0 {
		return res, nil
	}

	keys := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		keys[i] = scoreKey(targetType, id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue // cache miss for this id
		}
		var tally domain.VoteTally
		if err := json.Unmarshal([]byte(raw), &tally); err != nil {
			continue
		}
		res[targetIDs[i]] = tally
	}
	return res, nil
}

func (c *scoreCache) SetTally(ctx context.Context, targetType domain.TargetType, targetID int64, tally domain.VoteTally) error {
	data, err := json.Marshal(tally)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, scoreKey(targetType, targetID), data, scoreTTL).Err()
}

func (c *scoreCache) DeleteTally(ctx context.Context, targetType domain.TargetType, targetID int64) error {
	return c.client.Del(ctx, scoreKey(targetType, targetID)).Err()
}
