// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-member rate limit for ballot casts.
type RateLimiterConfig struct {
	Rate            rate.Limit    // casts per second per member
	Burst           int           // burst size
	CleanupInterval time.Duration // how often stale entries are dropped
	MaxIdle         time.Duration // entry age before it is dropped
}

// DefaultRateLimiterConfig allows 10 cast attempts per minute per
// member. A legitimate voter needs exactly one.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(10.0 / 60.0),
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
		MaxIdle:         10 * time.Minute,
	}
}

type memberLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter tracks a token bucket per member ID.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*memberLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a limiter and starts its background cleanup.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*memberLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the member may make another cast attempt now.
func (rl *RateLimiter) Allow(memberID string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[memberID]
	if !ok {
		entry = &memberLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[memberID] = entry
	}
	entry.lastAccess = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.MaxIdle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, entry := range rl.limiters {
		if entry.lastAccess.Before(cutoff) {
			delete(rl.limiters, id)
		}
	}
}
