package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// attemptLog 按客户端 IP 记录窗口内的尝试时间
type attemptLog struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
}

func newAttemptLog(window time.Duration) *attemptLog {
	return &attemptLog{window: window, hits: make(map[string][]time.Time)}
}

// allow 记录一次尝试；窗口内已达上限时返回 false 且不记录
func (l *attemptLog) allow(ip string, max int, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	recent := prune(l.hits[ip], now.Add(-l.window))
	if len(recent) >= max {
		l.hits[ip] = recent
		return false
	}
	l.hits[ip] = append(recent, now)
	return true
}

// sweep 清理过期记录
func (l *attemptLog) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-l.window)
	for ip, ts := range l.hits {
		if recent := prune(ts, cutoff); len(recent) == 0 {
			delete(l.hits, ip)
		} else {
			l.hits[ip] = recent
		}
	}
}

func prune(ts []time.Time, cutoff time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// PairRateLimit 配对接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次尝试，超过则返回 429
func PairRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	attempts := newAttemptLog(window)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			attempts.sweep(now)
		}
	}()

	return func(c *gin.Context) {
		if !attempts.allow(c.ClientIP(), maxAttempts, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "配对尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
