package redisx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zekrotja/hermans/internal/model"
)

const (
	fieldOrders      = "orders"
	fieldLastOrderAt = "last_order_at"
)

type ActivityStore struct {
	Redis redis.Cmdable
}

func (s *ActivityStore) OrderAdded(ctx context.Context, listID string, at time.Time) error {
	key := fmt.Sprintf(KeyListActivity, listID)
	_, err := s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HIncrBy(ctx, key, fieldOrders, 1)
		p.HSet(ctx, key, fieldLastOrderAt, at.UTC().Format(time.RFC3339Nano))
		p.Expire(ctx, key, TTLActivity)
		return nil
	})
	return err
}

func (s *ActivityStore) OrderRemoved(ctx context.Context, listID string) error {
	key := fmt.Sprintf(KeyListActivity, listID)
	n, err := s.Redis.HIncrBy(ctx, key, fieldOrders, -1).Result()
	if err != nil {
		return err
	}
	if n < 0 {
		return s.Redis.HSet(ctx, key, fieldOrders, 0).Err()
	}
	return nil
}

func (s *ActivityStore) Drop(ctx context.Context, listID string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(KeyListActivity, listID)).Err()
}

func (s *ActivityStore) Get(ctx context.Context, listID string) (*model.ListActivity, error) {
	m, err := s.Redis.HGetAll(ctx, fmt.Sprintf(KeyListActivity, listID)).Result()
	if err != nil {
		return nil, err
	}
	var a model.ListActivity
	if v, ok := m[fieldOrders]; ok {
		a.Orders, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := m[fieldLastOrderAt]; ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			a.LastOrderAt = &t
		}
	}
	return &a, nil
}
