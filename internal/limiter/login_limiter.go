package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config defines login throttling rules
type Config struct {
	MaxAttempts int           // Attempts allowed in the window
	Window      time.Duration // Counting window (e.g. 1 minute)
	BlockTime   time.Duration // How long to block after exceeding the limit
}

// LoginLimiter throttles authentication attempts per source IP using Redis.
type LoginLimiter struct {
	redis  *redis.Client
	config Config
}

func NewLoginLimiter(redisClient *redis.Client, config Config) *LoginLimiter {
	return &LoginLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Allow counts one attempt from ip and reports whether it may proceed.
// Returns (allowed, retryAfter, error). Redis failures fail open: callers
// should treat an error as allowed rather than lock everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration, error) {
	if banned, _ := l.IsIPBanned(ctx, ip); banned {
		return false, l.config.BlockTime, nil
	}

	key := fmt.Sprintf("loginlimit:%s", ip)

	// INCR with EXPIRE implements a sliding window counter
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}

	// Set expiry on first attempt (count = 1)
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(l.config.MaxAttempts) {
		// Extend the block once the limit is exceeded
		if l.config.BlockTime > l.config.Window {
			_ = l.redis.Expire(ctx, key, l.config.BlockTime).Err()
		}

		ttl, err := l.redis.TTL(ctx, key).Result()
		if err != nil {
			ttl = l.config.Window // Fallback to window size
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

// Reset clears the attempt counter for ip, e.g. after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, ip string) error {
	return l.redis.Del(ctx, fmt.Sprintf("loginlimit:%s", ip)).Err()
}

// IsIPBanned checks whether ip is on the permanent ban list.
func (l *LoginLimiter) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	exists, err := l.redis.SIsMember(ctx, "login_banned_ips", ip).Result()
	return exists, err
}

// BanIP adds an IP to the ban list.
func (l *LoginLimiter) BanIP(ctx context.Context, ip string) error {
	return l.redis.SAdd(ctx, "login_banned_ips", ip).Err()
}

// UnbanIP removes an IP from the ban list.
func (l *LoginLimiter) UnbanIP(ctx context.Context, ip string) error {
	return l.redis.SRem(ctx, "login_banned_ips", ip).Err()
}
