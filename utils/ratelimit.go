package utils

import (
	"sync"
	"time"
)

// RateLimiter реализует ограничение частоты запросов
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// pruneLocked удаляет запросы, вышедшие за пределы окна
func (rl *RateLimiter) pruneLocked(key string, now time.Time) []time.Time {
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	rl.requests[key] = valid
	return valid
}

// Allow проверяет, разрешен ли запрос
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	valid := rl.pruneLocked(key, now)

	// Проверяем лимит
	if len(valid) >= rl.limit {
		return false
	}

	// Добавляем новый запрос
	rl.requests[key] = append(valid, now)
	return true
}

// Reset сбрасывает счетчик для ключа
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.requests, key)
}

// GetRemaining возвращает количество оставшихся запросов
func (rl *RateLimiter) GetRemaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.pruneLocked(key, time.Now())
	remaining := rl.limit - len(valid)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// GetResetTime возвращает время до сброса лимита
func (rl *RateLimiter) GetResetTime(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.requests[key]) == 0 {
		return time.Now()
	}

	oldestRequest := rl.requests[key][0]
	return oldestRequest.Add(rl.window)
}
