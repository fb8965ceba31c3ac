package ratelimiter

import (
	e "adbridge/internal/core/domain/errors"
	"context"
)

var ErrRateLimitExceeded = e.New(e.RateLimited, "rate limit exceeded")

type Interval struct {
	value int
}

var (
	Minute = Interval{}
	Hour   = Interval{value: 1}
)

type Limit struct {
	Value    uint16
	Interval Interval
}

func PerHour(value uint16) Limit {
	return Limit{Value: value, Interval: Hour}
}

type Result struct {
	IsAllowed bool
}

func Allowed() Result {
	return Result{IsAllowed: true}
}

func NotAllowed() Result {
	return Result{IsAllowed: false}
}

type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit Limit) Result
}
