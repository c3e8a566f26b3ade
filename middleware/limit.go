package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

// LimiterStore 按 IP 保存限流器
type LimiterStore struct {
	mu    sync.Mutex
	m     map[string]*model.IpLimiter
	limit rate.Limit
	burst int
}

func NewLimiterStore(limit float64, burst int) *LimiterStore {
	return &LimiterStore{
		m:     make(map[string]*model.IpLimiter),
		limit: rate.Limit(limit),
		burst: burst,
	}
}

func (s *LimiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.m[ip]
	if !exists {
		limiter = &model.IpLimiter{Limiter: rate.NewLimiter(s.limit, s.burst)}
		s.m[ip] = limiter
	}
	limiter.LastActive = time.Now()
	return limiter.Limiter
}

// Cleanup 清理长时间不用的 limiter，返回清理数量
func (s *LimiterStore) Cleanup(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := time.Now()
	for ip, limiter := range s.m {
		if now.Sub(limiter.LastActive) > idle {
			delete(s.m, ip)
			n++
		}
	}
	return n
}

func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// RateLimitMiddleware Gin 中间件：限流
func RateLimitMiddleware(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			utils.SendError(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			return
		}
		c.Next()
	}
}
