package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket implements RateLimiter with the token bucket algorithm,
// allowing bursts of requests up to the bucket's capacity.
type TokenBucket struct {
	mu       sync.Mutex
	rate     float64 // tokens added per second
	capacity float64
	tokens   float64
	last     time.Time // last refill time
}

// NewTokenBucket creates a full bucket that refills at rate tokens per second
// up to capacity. Non-positive parameters are clamped to 1.
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	if rate <= 0 {
		rate = 1
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		last:     time.Now(),
	}
}

// Allow refills the bucket for the elapsed time and consumes one token if
// available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// KeyedLimiter maintains one TokenBucket per key (typically a client address),
// so one noisy client cannot starve the others.
type KeyedLimiter struct {
	mu       sync.Mutex
	rate     float64
	capacity int
	buckets  map[string]*TokenBucket
}

// NewKeyedLimiter creates a KeyedLimiter whose per-key buckets use the given
// rate and capacity.
func NewKeyedLimiter(rate float64, capacity int) *KeyedLimiter {
	return &KeyedLimiter{
		rate:     rate,
		capacity: capacity,
		buckets:  make(map[string]*TokenBucket),
	}
}

// AllowKey checks the bucket for key, creating it on first use.
func (kl *KeyedLimiter) AllowKey(key string) bool {
	kl.mu.Lock()
	tb, ok := kl.buckets[key]
	if !ok {
		tb = NewTokenBucket(kl.rate, kl.capacity)
		kl.buckets[key] = tb
	}
	kl.mu.Unlock()

	return tb.Allow()
}

var _ RateLimiter = (*TokenBucket)(nil)
