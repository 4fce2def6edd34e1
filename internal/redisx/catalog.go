package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zekrotja/hermans/internal/model"
)

// CatalogCache keeps the scraped catalog without expiry; the scrape
// scheduler replaces it.
type CatalogCache struct {
	Redis redis.Cmdable
}

func (c *CatalogCache) Load(ctx context.Context) (*model.ShopData, error) {
	b, err := c.Redis.Get(ctx, KeyCatalog).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var data model.ShopData
	if err := msgpack.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &data, nil
}

func (c *CatalogCache) Store(ctx context.Context, data *model.ShopData) error {
	b, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return c.Redis.Set(ctx, KeyCatalog, b, 0).Err()
}
