package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/pkg/circuitbreaker"
)

func TestConfigOptions_HostPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "cache.internal"
	cfg.Password = "secret"
	cfg.DB = 3

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
}

func TestConfigOptions_URLWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "redis://:pw@redis.example:6380/2"

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "redis.example:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
}

func TestConfigOptions_BadURL(t *testing.T) {
	_, err := Config{URL: "http://nope"}.Options()
	assert.ErrorIs(t, err, ErrCacheConnection)
}

func TestCourseKey(t *testing.T) {
	assert.Equal(t, "coursereg:course:42", CourseKey(42))
}

// unreachable returns a cache whose client can never connect.
func unreachable(t *testing.T) *Cache {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheWithClient(client)
}

func TestCache_ValidatesArguments(t *testing.T) {
	c := unreachable(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Set(ctx, "", 1, time.Minute), ErrCacheKeyEmpty)
	assert.ErrorIs(t, c.Set(ctx, "k", nil, time.Minute), ErrCacheNilValue)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, -time.Second), ErrCacheInvalidTTL)
	assert.ErrorIs(t, c.Get(ctx, "", new(int)), ErrCacheKeyEmpty)
	assert.NoError(t, c.Delete(ctx))
}

func TestNewCache_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 1
	cfg.DialTimeout = 50 * time.Millisecond

	_, err := NewCache(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrCacheConnection)
}

func TestCourseCache_DegradesToMiss(t *testing.T) {
	cc := NewCourseCache(unreachable(t), nil)

	got, ok := cc.Get(context.Background(), 7)
	assert.False(t, ok)
	assert.Nil(t, got)

	err := cc.Set(context.Background(), &course.Course{ID: 7, Name: "Compilers"}, 0)
	assert.Error(t, err)
}

func TestCourseCache_BreakerSkipsDeadRedis(t *testing.T) {
	breaker := circuitbreaker.New("redis",
		circuitbreaker.WithFailureThreshold(1),
		circuitbreaker.WithCoolDown(time.Hour),
		circuitbreaker.WithIsFailure(IsBreakerFailure),
	)
	cc := NewCourseCache(unreachable(t), nil).WithBreaker(breaker)
	ctx := context.Background()

	_, ok := cc.Get(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	err := cc.Delete(ctx, 1)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}

func TestIsBreakerFailure(t *testing.T) {
	assert.False(t, IsBreakerFailure(errMiss))
	assert.True(t, IsBreakerFailure(ErrCacheConnection))
}
