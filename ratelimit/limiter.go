// Package ratelimit counts requests per client key inside fixed windows.
package ratelimit

import (
	"context"
	"time"
)

// Policy is a named ceiling applied per client key.
type Policy struct {
	Name        string
	MaxRequests int
	Window      time.Duration
}

var (
	AnalyticsPolicy = Policy{Name: "analytics", MaxRequests: 100, Window: 15 * time.Minute}
	LoginPolicy     = Policy{Name: "login", MaxRequests: 5, Window: 15 * time.Minute}
)

// Limiter reports whether another request from key fits inside the window.
type Limiter interface {
	Allow(ctx context.Context, key string, maxRequests int, window time.Duration) bool
}
