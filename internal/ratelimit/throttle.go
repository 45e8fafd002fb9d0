// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Throttle is a token bucket that callers block on before doing work.
type Throttle interface {
	// Capacity returns the maximum number of tokens that can be requested in
	// a call to Wait.
	Capacity() uint64

	// Wait acquires the given number of tokens, sleeping until they are
	// available. It returns early with an error if ctx is cancelled first.
	//
	// REQUIRES: tokens <= Capacity()
	Wait(ctx context.Context, tokens uint64) error
}

type limiter struct {
	*rate.Limiter
}

func NewThrottle(rateHz float64, capacity uint64) Throttle {
	return &limiter{rate.NewLimiter(rate.Limit(rateHz), int(capacity))}
}

func (l *limiter) Capacity() uint64 {
	return uint64(l.Burst())
}

func (l *limiter) Wait(ctx context.Context, tokens uint64) error {
	return l.WaitN(ctx, int(tokens))
}

// ChooseLimiterCapacity picks a bucket capacity that keeps the observed rate
// within the limit when averaged over the given window.
func ChooseLimiterCapacity(rateHz float64, window time.Duration) (uint64, error) {
	if rateHz <= 0 || math.IsInf(rateHz, 0) {
		return 0, fmt.Errorf("Illegal rate: %f", rateHz)
	}
	if window <= 0 {
		return 0, fmt.Errorf("Illegal window: %v", window)
	}

	// A bucket of capacity c filled at rate r can emit at most c + r*w tokens
	// in any window w. Allow the burst to be 1/50 of the window's budget.
	capacity := math.Floor(rateHz * window.Seconds() / 50)
	if capacity < 1 {
		return 0, fmt.Errorf(
			"Can't use a token bucket to limit to %f Hz over a window of %v (result is a capacity of %f)",
			rateHz, window, capacity)
	}

	return uint64(capacity), nil
}

// NewThrottleFromLimit returns a throttle enforcing limitHz over the window,
// or nil when limitHz <= 0 meaning no limit.
func NewThrottleFromLimit(limitHz float64, window time.Duration) (Throttle, error) {
	if limitHz <= 0 {
		return nil, nil
	}
	capacity, err := ChooseLimiterCapacity(limitHz, window)
	if err != nil {
		return nil, fmt.Errorf("choosing limiter capacity: %w", err)
	}
	return NewThrottle(limitHz, capacity), nil
}
