package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter
type RateLimiter struct {
	config *RateLimitConfig

	// Buckets by key (IP or caller)
	buckets   map[string]*Bucket
	bucketsMu sync.RWMutex

	// Value-moving operations per caller (stricter)
	writeBuckets   map[string]*Bucket
	writeBucketsMu sync.RWMutex

	// Daily counters
	dailyCounters   map[string]*DailyCounter
	dailyCountersMu sync.RWMutex

	// OnReject is called with the bucket name of every rejected request
	OnReject func(bucket string)

	now func() time.Time

	cleanupTicker *time.Ticker
	stopCh        chan struct{}
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	// IP-based limits
	IPRequestsPerSecond int
	IPBurst             int
	IPBlockDuration     time.Duration // How long to block after limit exceeded

	// Caller-based limits for identified callers
	CallerRequestsPerSecond int
	CallerBurst             int

	// Limits on deposits, withdrawals and admin calls
	WritesPerSecond int
	WritesPerDay    int
	WriteBurst      int

	CleanupInterval time.Duration
	BucketTTL       time.Duration // Time before unused bucket is removed
}

// DefaultRateLimitConfig returns default configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		IPRequestsPerSecond: 100,
		IPBurst:             200,
		IPBlockDuration:     time.Minute,

		CallerRequestsPerSecond: 50,
		CallerBurst:             100,

		WritesPerSecond: 2,
		WritesPerDay:    1000,
		WriteBurst:      5,

		CleanupInterval: 5 * time.Minute,
		BucketTTL:       time.Hour,
	}
}

// Bucket represents a token bucket for rate limiting
type Bucket struct {
	tokens       float64
	maxTokens    float64
	refillRate   float64 // tokens per second
	lastUpdate   time.Time
	blocked      bool
	blockedUntil time.Time
	mu           sync.Mutex
}

// DailyCounter tracks daily request counts
type DailyCounter struct {
	count int
	limit int
	date  string
	mu    sync.Mutex
}

// RateLimitInfo contains rate limit information
type RateLimitInfo struct {
	Allowed    bool   `json:"allowed"`
	Remaining  int    `json:"remaining"`
	Limit      int    `json:"limit"`
	RetryAfter int    `json:"retry_after,omitempty"`
	LimitType  string `json:"limit_type"`
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:        config,
		buckets:       make(map[string]*Bucket),
		writeBuckets:  make(map[string]*Bucket),
		dailyCounters: make(map[string]*DailyCounter),
		now:           time.Now,
		cleanupTicker: time.NewTicker(config.CleanupInterval),
		stopCh:        make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the rate limiter
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
	rl.cleanupTicker.Stop()
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes idle buckets and stale daily counters
func (rl *RateLimiter) cleanup() {
	now := rl.now()
	threshold := now.Add(-rl.config.BucketTTL)

	pruneBuckets(&rl.bucketsMu, rl.buckets, threshold)
	pruneBuckets(&rl.writeBucketsMu, rl.writeBuckets, threshold)

	today := now.Format("2006-01-02")
	rl.dailyCountersMu.Lock()
	for key, counter := range rl.dailyCounters {
		if counter.date != today {
			delete(rl.dailyCounters, key)
		}
	}
	rl.dailyCountersMu.Unlock()
}

func pruneBuckets(mu *sync.RWMutex, buckets map[string]*Bucket, threshold time.Time) {
	mu.Lock()
	defer mu.Unlock()
	for key, bucket := range buckets {
		bucket.mu.Lock()
		if bucket.lastUpdate.Before(threshold) {
			delete(buckets, key)
		}
		bucket.mu.Unlock()
	}
}

// getBucket gets or creates a bucket for key in buckets
func (rl *RateLimiter) getBucket(mu *sync.RWMutex, buckets map[string]*Bucket, key string, maxTokens, refillRate float64) *Bucket {
	mu.RLock()
	bucket, ok := buckets[key]
	mu.RUnlock()
	if ok {
		return bucket
	}

	mu.Lock()
	defer mu.Unlock()

	// Double-check after acquiring write lock
	if bucket, ok := buckets[key]; ok {
		return bucket
	}

	bucket = &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastUpdate: rl.now(),
	}
	buckets[key] = bucket
	return bucket
}

// getDailyCounter gets or creates a daily counter for a key
func (rl *RateLimiter) getDailyCounter(key string, limit int) *DailyCounter {
	today := rl.now().Format("2006-01-02")
	counterKey := key + ":" + today

	rl.dailyCountersMu.RLock()
	counter, ok := rl.dailyCounters[counterKey]
	rl.dailyCountersMu.RUnlock()
	if ok {
		return counter
	}

	rl.dailyCountersMu.Lock()
	defer rl.dailyCountersMu.Unlock()

	if counter, ok := rl.dailyCounters[counterKey]; ok {
		return counter
	}

	counter = &DailyCounter{limit: limit, date: today}
	rl.dailyCounters[counterKey] = counter
	return counter
}

// AllowIP checks if a request from an IP is allowed
func (rl *RateLimiter) AllowIP(ip string) (bool, *RateLimitInfo) {
	bucket := rl.getBucket(&rl.bucketsMu, rl.buckets, "ip:"+ip,
		float64(rl.config.IPBurst), float64(rl.config.IPRequestsPerSecond))
	return rl.tryConsume(bucket, 1)
}

// AllowCaller checks if a request from an identified caller is allowed
func (rl *RateLimiter) AllowCaller(caller string) (bool, *RateLimitInfo) {
	bucket := rl.getBucket(&rl.bucketsMu, rl.buckets, "caller:"+caller,
		float64(rl.config.CallerBurst), float64(rl.config.CallerRequestsPerSecond))
	return rl.tryConsume(bucket, 1)
}

// AllowWrite checks if a value-moving operation by caller is allowed
func (rl *RateLimiter) AllowWrite(caller string) (bool, *RateLimitInfo) {
	bucket := rl.getBucket(&rl.writeBucketsMu, rl.writeBuckets, "write:"+caller,
		float64(rl.config.WriteBurst), float64(rl.config.WritesPerSecond))
	allowed, info := rl.tryConsume(bucket, 1)
	if !allowed {
		return false, info
	}

	counter := rl.getDailyCounter("write:"+caller, rl.config.WritesPerDay)
	counter.mu.Lock()
	defer counter.mu.Unlock()

	if counter.count >= counter.limit {
		return false, &RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			Limit:      counter.limit,
			RetryAfter: rl.secondsUntilMidnight(),
			LimitType:  "daily",
		}
	}

	counter.count++
	return true, &RateLimitInfo{
		Allowed:   true,
		Remaining: counter.limit - counter.count,
		Limit:     counter.limit,
		LimitType: "daily",
	}
}

// tryConsume tries to consume a token from a bucket
func (rl *RateLimiter) tryConsume(bucket *Bucket, tokens float64) (bool, *RateLimitInfo) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := rl.now()

	if bucket.blocked && now.Before(bucket.blockedUntil) {
		return false, &RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			Limit:      int(bucket.maxTokens),
			RetryAfter: int(bucket.blockedUntil.Sub(now).Seconds()) + 1,
			LimitType:  "blocked",
		}
	}
	bucket.blocked = false

	// Refill tokens
	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * bucket.refillRate
	if bucket.tokens > bucket.maxTokens {
		bucket.tokens = bucket.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= tokens {
		bucket.tokens -= tokens
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: int(bucket.tokens),
			Limit:     int(bucket.maxTokens),
			LimitType: "rate",
		}
	}

	// Not enough tokens, block the bucket
	bucket.blocked = true
	bucket.blockedUntil = now.Add(rl.config.IPBlockDuration)

	retryAfter := int((tokens-bucket.tokens)/bucket.refillRate) + 1
	return false, &RateLimitInfo{
		Allowed:    false,
		Remaining:  0,
		Limit:      int(bucket.maxTokens),
		RetryAfter: retryAfter,
		LimitType:  "rate",
	}
}

func (rl *RateLimiter) secondsUntilMidnight() int {
	now := rl.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return int(midnight.Sub(now).Seconds())
}

func (rl *RateLimiter) reject(w http.ResponseWriter, bucket, message string, info *RateLimitInfo) {
	if rl.OnReject != nil {
		rl.OnReject(bucket)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
	}
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       "rate_limit_exceeded",
		"message":     message,
		"retry_after": info.RetryAfter,
		"limit_type":  info.LimitType,
	})
}

// ============ HTTP Middleware ============

// RateLimitMiddleware limits requests per IP and, when a caller address is
// present, per caller
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := rl.AllowIP(getClientIP(r))
			if !allowed {
				rl.reject(w, "ip", "Too many requests, please slow down", info)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))

			if caller := r.Header.Get(CallerHeader); caller != "" {
				r = r.WithContext(SetCallerContext(r.Context(), caller))
				if allowed, info := rl.AllowCaller(caller); !allowed {
					rl.reject(w, "caller", "Caller rate limit exceeded", info)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteRateLimitMiddleware limits value-moving operations per caller. The
// caller must be identified.
func WriteRateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := r.Header.Get(CallerHeader)
			if caller == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":   "missing_caller",
					"message": CallerHeader + " header is required",
				})
				return
			}

			allowed, info := rl.AllowWrite(caller)
			if !allowed {
				rl.reject(w, "write", fmt.Sprintf("Write %s limit exceeded", info.LimitType), info)
				return
			}

			w.Header().Set("X-RateLimit-Write-Remaining", fmt.Sprintf("%d", info.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}

// CallerHeader carries the authenticated caller address
const CallerHeader = "X-Caller-Address"

type contextKey string

const callerContextKey contextKey = "caller"

// SetCallerContext sets the caller address in context
func SetCallerContext(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext gets the caller address from context
func CallerFromContext(ctx context.Context) string {
	if caller, ok := ctx.Value(callerContextKey).(string); ok {
		return caller
	}
	return ""
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}

// ============ Statistics ============

// Stats returns rate limiter statistics
type Stats struct {
	TotalBuckets   int `json:"total_buckets"`
	WriteBuckets   int `json:"write_buckets"`
	DailyCounters  int `json:"daily_counters"`
	BlockedBuckets int `json:"blocked_buckets"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() *Stats {
	now := rl.now()

	rl.bucketsMu.RLock()
	totalBuckets := len(rl.buckets)
	blockedCount := 0
	for _, b := range rl.buckets {
		b.mu.Lock()
		if b.blocked && now.Before(b.blockedUntil) {
			blockedCount++
		}
		b.mu.Unlock()
	}
	rl.bucketsMu.RUnlock()

	rl.writeBucketsMu.RLock()
	writeBuckets := len(rl.writeBuckets)
	rl.writeBucketsMu.RUnlock()

	rl.dailyCountersMu.RLock()
	dailyCounters := len(rl.dailyCounters)
	rl.dailyCountersMu.RUnlock()

	return &Stats{
		TotalBuckets:   totalBuckets,
		WriteBuckets:   writeBuckets,
		DailyCounters:  dailyCounters,
		BlockedBuckets: blockedCount,
	}
}
