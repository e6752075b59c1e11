package timeutil_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rohmanhakim/coin-checker/pkg/timeutil"
)

func TestExponentialBackoffDelay(t *testing.T) {
	param := timeutil.NewBackoffParam(30*time.Second, 2.0, 300*time.Second)

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{
			name:    "first attempt yields initial duration",
			attempt: 1,
			want:    30 * time.Second,
		},
		{
			name:    "second attempt doubles",
			attempt: 2,
			want:    60 * time.Second,
		},
		{
			name:    "third attempt doubles again",
			attempt: 3,
			want:    120 * time.Second,
		},
		{
			name:    "fourth attempt",
			attempt: 4,
			want:    240 * time.Second,
		},
		{
			name:    "fifth attempt hits the cap",
			attempt: 5,
			want:    300 * time.Second,
		},
		{
			name:    "stays at the cap afterwards",
			attempt: 9,
			want:    300 * time.Second,
		},
		{
			name:    "attempt below one clamps to one",
			attempt: 0,
			want:    30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := timeutil.ExponentialBackoffDelay(tt.attempt, 0, nil, param)
			if got != tt.want {
				t.Errorf("ExponentialBackoffDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestExponentialBackoffDelay_JitterBounds(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 2.0, time.Minute)
	jitter := 500 * time.Millisecond
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		got := timeutil.ExponentialBackoffDelay(1, jitter, rng, param)
		if got < time.Second || got >= time.Second+jitter {
			t.Fatalf("jittered delay = %v, want within [1s, 1.5s)", got)
		}
	}
}

func TestExponentialBackoffDelay_NilRNGSkipsJitter(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 2.0, time.Minute)

	got := timeutil.ExponentialBackoffDelay(1, time.Second, nil, param)
	if got != time.Second {
		t.Errorf("delay with nil rng = %v, want the pure exponential 1s", got)
	}
}

func TestBackoffParamGetters(t *testing.T) {
	param := timeutil.NewBackoffParam(5*time.Second, 3.0, 45*time.Second)

	if param.InitialDuration() != 5*time.Second {
		t.Errorf("initial = %v, want 5s", param.InitialDuration())
	}
	if param.Multiplier() != 3.0 {
		t.Errorf("multiplier = %v, want 3.0", param.Multiplier())
	}
	if param.MaxDuration() != 45*time.Second {
		t.Errorf("max = %v, want 45s", param.MaxDuration())
	}
}
