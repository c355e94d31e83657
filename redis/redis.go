package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// StoreRefreshToken keeps the latest refresh token per user so a stolen old
// token can't be replayed after re-login or logout.
func StoreRefreshToken(userID uint, token string, ttl time.Duration) error {
	return Client.Set(Ctx, refreshKey(userID), token, ttl).Err()
}

// GetRefreshToken returns the stored token, or "" when none is set.
func GetRefreshToken(userID uint) (string, error) {
	val, err := Client.Get(Ctx, refreshKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func DeleteRefreshToken(userID uint) error {
	return Client.Del(Ctx, refreshKey(userID)).Err()
}

func refreshKey(userID uint) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}
