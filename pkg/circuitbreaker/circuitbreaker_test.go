package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/pkg/timeutil"
)

var errDown = errors.New("down")

func fail(context.Context) error { return errDown }
func ok(context.Context) error   { return nil }

func newTestBreaker(t *testing.T, opts ...Option) (*Breaker, *timeutil.FixedClock, *[]string) {
	t.Helper()
	clock := timeutil.NewFixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	var transitions []string
	opts = append([]Option{
		WithClock(clock),
		WithFailureThreshold(2),
		WithCoolDown(10 * time.Second),
		WithOnStateChange(func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	}, opts...)
	return New("test", opts...), clock, &transitions
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _, transitions := newTestBreaker(t)
	ctx := context.Background()

	assert.ErrorIs(t, b.Execute(ctx, fail), errDown)
	assert.Equal(t, StateClosed, b.State())
	assert.ErrorIs(t, b.Execute(ctx, fail), errDown)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Execute(ctx, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.True(t, IsRejected(err))
	assert.False(t, called)
	assert.Equal(t, []string{"closed->open"}, *transitions)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b, _, _ := newTestBreaker(t)
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	require.NoError(t, b.Execute(ctx, ok))
	_ = b.Execute(ctx, fail)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	b, clock, transitions := newTestBreaker(t, WithSuccessThreshold(2), WithMaxProbes(2))
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)

	clock.Advance(9 * time.Second)
	assert.ErrorIs(t, b.Execute(ctx, ok), ErrOpen)

	clock.Advance(time.Second)
	require.NoError(t, b.Execute(ctx, ok))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, b.Execute(ctx, ok))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, *transitions)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock, _ := newTestBreaker(t)
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)
	clock.Advance(10 * time.Second)

	assert.ErrorIs(t, b.Execute(ctx, fail), errDown)
	assert.Equal(t, StateOpen, b.State())
	assert.ErrorIs(t, b.Execute(ctx, ok), ErrOpen)
}

func TestBreaker_ProbeLimit(t *testing.T) {
	b, clock, _ := newTestBreaker(t)
	ctx := context.Background()

	_ = b.Execute(ctx, fail)
	_ = b.Execute(ctx, fail)
	clock.Advance(10 * time.Second)

	err := b.Execute(ctx, func(ctx context.Context) error {
		assert.ErrorIs(t, b.Execute(ctx, ok), ErrTooManyProbes)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreaker_IsFailure(t *testing.T) {
	ignored := errors.New("miss")
	b, _, _ := newTestBreaker(t, WithIsFailure(func(err error) bool { return !errors.Is(err, ignored) }))
	ctx := context.Background()

	for range 5 {
		assert.ErrorIs(t, b.Execute(ctx, func(context.Context) error { return ignored }), ignored)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "test", b.Name())
}
