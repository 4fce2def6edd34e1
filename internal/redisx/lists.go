package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zekrotja/hermans/internal/model"
)

// setIfGen stores the snapshot only while the list generation still equals
// the one the reader saw before loading from the store. A missing
// generation counts as 0.
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ListCache stores read snapshots of order lists. Writers invalidate, which
// also bumps the list generation so fills started before the write are
// discarded.
type ListCache struct {
	Redis redis.Cmdable
	TTL   time.Duration
}

func (c *ListCache) Get(ctx context.Context, id string) (*model.OrderList, bool, error) {
	b, err := c.Redis.Get(ctx, fmt.Sprintf(KeyOrderList, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var list model.OrderList
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	return &list, true, nil
}

// Generation returns the current write generation of the list.
func (c *ListCache) Generation(ctx context.Context, id string) (int64, error) {
	n, err := c.Redis.Get(ctx, fmt.Sprintf(KeyOrderListGen, id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Set stores the snapshot unless a writer bumped the generation since gen
// was read. It reports whether the snapshot was stored.
func (c *ListCache) Set(ctx context.Context, list *model.OrderList, gen int64) (bool, error) {
	b, err := json.Marshal(list)
	if err != nil {
		return false, err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = TTLListSnapshot
	}
	n, err := setIfGen.Run(ctx, c.Redis,
		[]string{fmt.Sprintf(KeyOrderListGen, list.ID), fmt.Sprintf(KeyOrderList, list.ID)},
		strconv.FormatInt(gen, 10), b, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *ListCache) Invalidate(ctx context.Context, id string) error {
	genKey := fmt.Sprintf(KeyOrderListGen, id)
	_, err := c.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Expire(ctx, genKey, TTLListGen)
		p.Del(ctx, fmt.Sprintf(KeyOrderList, id))
		return nil
	})
	return err
}
