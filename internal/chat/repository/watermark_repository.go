package repository

import (
	"context"
	"errors"

	"pharmacy_delivery_service/pkg/database"
)

// WatermarkRepository persisted "messages seen up to" timestamps, one per
// identity key. Missing keys read as 0.
type WatermarkRepository interface {
	Load(ctx context.Context, key string) (int64, error)
	Store(ctx context.Context, key string, at int64) error
}

type watermarkRepository struct {
	redisRepo database.RedisRepository[int64]
}

// NewRedisWatermarkRepository create a WatermarkRepository on redis
func NewRedisWatermarkRepository(redisRepo database.RedisRepository[int64]) WatermarkRepository {
	return &watermarkRepository{redisRepo: redisRepo}
}

func (r *watermarkRepository) Load(ctx context.Context, key string) (int64, error) {
	v, err := r.redisRepo.Get(ctx, key)
	if err != nil {
		// never-set watermark defaults to epoch
		if errors.Is(err, database.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

func (r *watermarkRepository) Store(ctx context.Context, key string, at int64) error {
	// watermarks do not expire
	return r.redisRepo.Set(ctx, key, at, 0)
}
