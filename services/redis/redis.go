package redis

import (
	redis_models "Quizrush/models/redis"
	redis_utils "Quizrush/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// BindToken maps an invite token to a room id. The SETNX semantics make
// creation retries for the same token idempotent: only the first bind
// wins, later binds fail and the caller resolves the original room.
func (rc *RedisClient) BindToken(token string, roomID string) error {
	key := redis_utils.FormatInviteTokenKey(token)
	ok, err := rc.client.SetNX(rc.ctx, key, roomID, 24*time.Hour).Result()
	if err != nil {
		return fmt.Errorf("error binding invite token: %v", err)
	}
	if !ok {
		return fmt.Errorf("invite token already bound")
	}
	return nil
}

// ResolveToken returns the room id an invite token maps to, or an empty
// string when the token is unknown or expired.
func (rc *RedisClient) ResolveToken(token string) (string, error) {
	key := redis_utils.FormatInviteTokenKey(token)
	roomID, err := rc.client.Get(rc.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error resolving invite token: %v", err)
	}
	return roomID, nil
}

// ReleaseToken removes an invite token binding when its room is evicted.
func (rc *RedisClient) ReleaseToken(token string) error {
	key := redis_utils.FormatInviteTokenKey(token)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error releasing invite token: %v", err)
	}
	return nil
}

// SaveGuestSession stores the session nonce issued to a guest at first
// join. TTL matches the reconnection grace window plus a safety margin so
// a guest can rebind after a transport drop.
func (rc *RedisClient) SaveGuestSession(session *redis_models.GuestSession, ttl time.Duration) error {
	key := redis_utils.FormatGuestSessionKey(session.Nonce)
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshaling guest session: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, ttl).Err()
}

// GetGuestSession retrieves a guest session by nonce. Returns nil without
// error when the nonce is unknown or expired.
func (rc *RedisClient) GetGuestSession(nonce string) (*redis_models.GuestSession, error) {
	key := redis_utils.FormatGuestSessionKey(nonce)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting guest session: %v", err)
	}

	var session redis_models.GuestSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("error unmarshaling guest session: %v", err)
	}
	return &session, nil
}

// ReleaseGuestSessions drops the stored guest sessions for the given
// nonces. Called at room eviction so guest bindings never outlive the
// room they were issued for.
func (rc *RedisClient) ReleaseGuestSessions(nonces []string) error {
	keys := make([]string, len(nonces))
	for i, nonce := range nonces {
		keys[i] = redis_utils.FormatGuestSessionKey(nonce)
	}
	return rc.CleanupKeys(keys)
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
