package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Sankalvax/opt/internal/models"
)

// CacheService caches forecast runs so repeated capacity/scenario requests
// against the same baseline don't re-simulate. Cache errors are always
// non-fatal: a miss and an error look the same to callers who check for nil.
type CacheService interface {
	GetForecast(ctx context.Context, horizon int) (*models.ForecastResult, error)
	SetForecast(ctx context.Context, horizon int, result *models.ForecastResult, ttl time.Duration) error
	InvalidateAll(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis:// URLs as well as bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func forecastKey(horizon int) string {
	return fmt.Sprintf("opt:forecast:%dm", horizon)
}

func (r *redisCacheService) GetForecast(ctx context.Context, horizon int) (*models.ForecastResult, error) {
	data, err := r.client.Get(ctx, forecastKey(horizon)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var result models.ForecastResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *redisCacheService) SetForecast(ctx context.Context, horizon int, result *models.ForecastResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, forecastKey(horizon), data, ttl).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "opt:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
