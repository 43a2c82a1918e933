package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffMultiplier: 2}
}

func TestRetryDelay(t *testing.T) {
	cfg := RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffMultiplier: 2}
	assert.Equal(t, time.Second, cfg.delay(1))
	assert.Equal(t, 2*time.Second, cfg.delay(2))
	assert.Equal(t, 4*time.Second, cfg.delay(3))
	assert.Equal(t, 5*time.Second, cfg.delay(4), "capped")

	cfg.Jitter = true
	d := cfg.delay(1)
	assert.InDelta(t, float64(time.Second), float64(d), float64(50*time.Millisecond))
}

func TestLoadRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	ds, err := Load(context.Background(), Source{Location: srv.URL, Retry: fastRetry(3)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoadGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), Source{Location: srv.URL, Retry: fastRetry(2)}, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoadDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), Source{Location: srv.URL, Retry: fastRetry(5)}, nil)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}
