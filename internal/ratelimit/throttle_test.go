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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseLimiterCapacity(t *testing.T) {
	testCases := []struct {
		name    string
		rateHz  float64
		window  time.Duration
		want    uint64
		wantErr string
	}{
		{name: "negative_rate", rateHz: -1, window: 30 * time.Second, wantErr: "Illegal rate: -1.000000"},
		{name: "zero_rate", rateHz: 0, window: 30 * time.Second, wantErr: "Illegal rate: 0.000000"},
		{name: "infinite_rate", rateHz: math.Inf(1), window: 30 * time.Second, wantErr: "Illegal rate: +Inf"},
		{name: "negative_window", rateHz: 1, window: -1, wantErr: "Illegal window: -1ns"},
		{name: "zero_window", rateHz: 1, window: 0, wantErr: "Illegal window: 0s"},
		{name: "capacity_rounds_to_zero", rateHz: 0.5, window: 1, wantErr: "Can't use a token bucket"},
		{name: "expected_capacity", rateHz: 20, window: 10 * time.Second, want: 4},
		{name: "bytes_per_sec", rateHz: 1 << 20, window: 30 * time.Second, want: 629145},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ChooseLimiterCapacity(tc.rateHz, tc.window)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewThrottleFromLimitDisabled(t *testing.T) {
	for _, limit := range []float64{-1, 0} {
		th, err := NewThrottleFromLimit(limit, 30*time.Second)

		require.NoError(t, err)
		assert.Nil(t, th)
	}
}

func TestNewThrottleFromLimit(t *testing.T) {
	th, err := NewThrottleFromLimit(100, 30*time.Second)

	require.NoError(t, err)
	require.NotNil(t, th)
	assert.Equal(t, uint64(60), th.Capacity())
	assert.NoError(t, th.Wait(context.Background(), 60))
}

func TestNewThrottleFromLimitTooSmall(t *testing.T) {
	_, err := NewThrottleFromLimit(1, 30*time.Second)

	assert.ErrorContains(t, err, "choosing limiter capacity")
}

func TestThrottleWaitHonoursCancellation(t *testing.T) {
	th := NewThrottle(1, 1)
	require.NoError(t, th.Wait(context.Background(), 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := th.Wait(ctx, 1)

	assert.Error(t, err)
}
