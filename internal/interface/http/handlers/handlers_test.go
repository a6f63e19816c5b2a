package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCompositeHealthChecker(t *testing.T) {
	ctx := context.Background()
	hc := NewCompositeHealthChecker("1.0.0")

	status := hc.Check(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, "No health checks registered", status.Message)

	hc.AddCheck("database", NewDatabaseCheck(pingerFunc(func(context.Context) error { return nil })))
	hc.AddCheck("cache", NewCacheCheck(pingerFunc(func(context.Context) error { return errors.New("refused") })))
	hc.AddCheck("broker", func(context.Context) error { return errors.New("down") })

	status = hc.Check(ctx)
	assert.False(t, status.Healthy)
	assert.False(t, status.Ready)
	assert.Equal(t, "Some checks failed: broker, cache", status.Message)
	assert.True(t, status.Checks["database"].Healthy)
	assert.Equal(t, "1.0.0", status.Version)

	healthy := NewCompositeHealthChecker("1.0.0")
	healthy.AddCheck("database", NewDatabaseCheck(pingerFunc(func(context.Context) error { return nil })))
	status = healthy.Check(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, "All checks passed", status.Message)
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	hc := NewCompositeHealthChecker("")
	hc.SetTimeout(10 * time.Millisecond)
	hc.SetTimeout(0)
	hc.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	status := hc.Check(context.Background())
	require.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline exceeded")
}

func TestNoopHealthChecker(t *testing.T) {
	status := NewNoopHealthChecker().Check(context.Background())
	assert.True(t, status.Healthy)
	assert.True(t, status.Ready)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	// Unknown length: the limit is enforced while reading.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
	req.ContentLength = -1
	h.ServeHTTP(httptest.NewRecorder(), req)
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)
}
