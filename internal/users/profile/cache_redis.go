// Copyright (c) 2026 Newsdesk. All rights reserved.
// Author: duc.phamminh.dev@gmail.com

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/phamduc/newsdesk/internal/platform/apperr"
	"github.com/phamduc/newsdesk/internal/platform/constants"
)

// # Profile Cache

// fillScript stores the profile only when the generation counter still holds
// the value the caller observed before querying Postgres. A mutation in the
// window bumps the counter and the stale fill is silently discarded.
var fillScript = redis.NewScript(`
	local generation = redis.call('GET', KEYS[2])
	if generation == false then
		generation = '0'
	end
	if generation == ARGV[2] then
		redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[3])
		return 1
	end
	return 0
`)

// RedisCache implements the Cache interface backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewCache creates a Redis-backed profile cache.
func NewCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func profileKey(userID string) string {
	return constants.RedisPrefixProfile + userID
}

func generationKey(userID string) string {
	return constants.RedisPrefixProfileGen + userID
}

/*
Get returns the cached profile for the user.

Description: Returns apperr.NotFound on a cache miss so the caller falls
through to Postgres. A corrupted cached payload is treated as a miss.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Cached entity
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisCache) Get(context context.Context, userID string) (*Profile, error) {
	payload, err := cache.client.Get(context, profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Profile not cached")
		}
		return nil, fmt.Errorf("redis_profile_cache_get_failed: %w", err)
	}

	profile := &Profile{}
	if err := json.Unmarshal(payload, profile); err != nil {
		// Treat a corrupted entry as a miss and let it be overwritten.
		return nil, apperr.NotFound("Profile not cached")
	}

	return profile, nil
}

/*
Generation returns the current fill-guard counter for the user.

Description: An absent counter reads as "0" so fresh users start guarded.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Counter value
  - error: Connectivity errors
*/
func (cache *RedisCache) Generation(context context.Context, userID string) (string, error) {
	generation, err := cache.client.Get(context, generationKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "0", nil
		}
		return "", fmt.Errorf("redis_profile_cache_generation_failed: %w", err)
	}
	return generation, nil
}

/*
SetIfGeneration stores the profile under the generation guard.

Description: The write happens atomically in Redis. When the counter moved
since the caller sampled it, the fill is dropped without error; the next
read simply misses and refetches.

Parameters:
  - context: context.Context
  - userID: string
  - profile: *Profile
  - generation: string (value sampled before the backing fetch)

Returns:
  - error: Serialization or connectivity errors
*/
func (cache *RedisCache) SetIfGeneration(context context.Context, userID string, profile *Profile, generation string) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("redis_profile_cache_marshal_failed: %w", err)
	}

	keys := []string{profileKey(userID), generationKey(userID)}
	ttlSeconds := int(CacheTTL.Seconds())

	if err := fillScript.Run(context, cache.client, keys, payload, generation, ttlSeconds).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_fill_failed: %w", err)
	}

	return nil
}

/*
Invalidate bumps the generation counter and drops the cached row.

Description: Every profile mutation and every session teardown calls this.
The INCR is what defeats in-flight stale fills; the DEL is just eager
cleanup. The counter carries a refreshed expiry so idle users' guard keys
do not accumulate forever; an expired counter reads as "0" again, which
only ever discards a fill.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Connectivity errors
*/
func (cache *RedisCache) Invalidate(context context.Context, userID string) error {
	pipe := cache.client.TxPipeline()
	pipe.Incr(context, generationKey(userID))
	pipe.Expire(context, generationKey(userID), GenerationTTL)
	pipe.Del(context, profileKey(userID))

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_profile_cache_invalidate_failed: %w", err)
	}

	return nil
}
