package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimitType string

const (
	RateLimitTypeDefault RateLimitType = "default"
	RateLimitTypePublic  RateLimitType = "public"
	RateLimitTypeAuth    RateLimitType = "auth"
	RateLimitTypeBooking RateLimitType = "booking"
	RateLimitTypeAdmin   RateLimitType = "admin"
)

// Config holds rate limiting configuration
type Config struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	AdminRequests   int           `json:"admin_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// Result represents rate limit check result
type Result struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *redis.Client
	config *Config
}

func NewRateLimiter(client *redis.Client, config *Config) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// Allow checks whether the identifier may perform another request in the
// current fixed window.
func (rl *RateLimiter) Allow(ctx context.Context, identifier string, limitType RateLimitType) (*Result, error) {
	limit := rl.limitFor(limitType)
	window := rl.config.WindowDuration

	windowStart := time.Now().Truncate(window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", limitType, identifier, windowStart.Unix())

	pipe := rl.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetTime: windowStart.Add(window).Unix(),
	}, nil
}

// IsWhitelisted checks if an IP is exempt from rate limiting
func (rl *RateLimiter) IsWhitelisted(ip string) bool {
	for _, whitelisted := range rl.config.WhitelistedIPs {
		if whitelisted == ip {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) limitFor(limitType RateLimitType) int {
	switch limitType {
	case RateLimitTypePublic:
		return rl.config.PublicRequests
	case RateLimitTypeAuth:
		return rl.config.AuthRequests
	case RateLimitTypeBooking:
		return rl.config.BookingRequests
	case RateLimitTypeAdmin:
		return rl.config.AdminRequests
	default:
		return rl.config.DefaultRequests
	}
}
