package xretry

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xresil/pkg/resilience/xclassify"
)

func TestNewPolicy(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			BaseDelay:   100 * time.Millisecond,
			MaxDelay:    time.Second,
			Multiplier:  2.0,
			Jitter:      50 * time.Millisecond,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, p.MaxAttempts())
		assert.Equal(t, 100*time.Millisecond, p.BaseDelay())
		assert.Equal(t, time.Second, p.MaxDelay())
		assert.Equal(t, 2.0, p.Multiplier())
		assert.Equal(t, 50*time.Millisecond, p.Jitter())
		assert.False(t, p.RespectSuggestedWait())
		assert.Nil(t, p.Classifier())
	})

	t.Run("InvalidMaxAttempts", func(t *testing.T) {
		_, err := NewPolicy(PolicyConfig{MaxAttempts: 0, Multiplier: 2.0})
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("NegativeBaseDelay", func(t *testing.T) {
		_, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			BaseDelay:   -time.Second,
			MaxDelay:    time.Second,
			Multiplier:  2.0,
		})
		assert.ErrorIs(t, err, ErrInvalidDelayBounds)
	})

	t.Run("MaxDelayBelowBase", func(t *testing.T) {
		_, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    500 * time.Millisecond,
			Multiplier:  2.0,
		})
		assert.ErrorIs(t, err, ErrInvalidDelayBounds)
	})

	t.Run("InvalidMultiplier", func(t *testing.T) {
		_, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    time.Second,
			Multiplier:  0.5,
		})
		assert.ErrorIs(t, err, ErrInvalidMultiplier)
	})

	t.Run("NegativeJitter", func(t *testing.T) {
		_, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    time.Second,
			Multiplier:  2.0,
			Jitter:      -time.Millisecond,
		})
		assert.ErrorIs(t, err, ErrInvalidJitter)
	})

	t.Run("SingleAttemptNoBackoff", func(t *testing.T) {
		// MaxAttempts = 1 是合法的"只试一次"策略
		p, err := NewPolicy(PolicyConfig{MaxAttempts: 1, Multiplier: 1.0})
		require.NoError(t, err)
		assert.Equal(t, 1, p.MaxAttempts())
	})
}

func TestPolicy_Retryable(t *testing.T) {
	t.Run("NilError", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{MaxAttempts: 3, Multiplier: 1.0})
		require.NoError(t, err)
		assert.False(t, p.Retryable(nil))
	})

	t.Run("DefaultRetryableWithoutClassifier", func(t *testing.T) {
		// 无分类器、无标记的错误默认可重试
		p, err := NewPolicy(PolicyConfig{MaxAttempts: 3, Multiplier: 1.0})
		require.NoError(t, err)
		assert.True(t, p.Retryable(errors.New("unknown")))
	})

	t.Run("MarkedPermanent", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{MaxAttempts: 3, Multiplier: 1.0})
		require.NoError(t, err)
		assert.False(t, p.Retryable(xclassify.NewPermanentError(errors.New("bad input"))))
	})

	t.Run("MarkedTemporary", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{MaxAttempts: 3, Multiplier: 1.0})
		require.NoError(t, err)
		assert.True(t, p.Retryable(xclassify.NewTemporaryError(errors.New("glitch"))))
	})

	t.Run("DelegatesToClassifier", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{
			MaxAttempts: 3,
			Multiplier:  1.0,
			Classifier:  xclassify.NewStorageClassifier(),
		})
		require.NoError(t, err)

		// 分类器接管判定：未知存储错误不可重试，限流可重试
		assert.False(t, p.Retryable(errors.New("unknown")))
		assert.True(t, p.Retryable(xclassify.NewStorageError("SlowDown", nil)))
	})
}

func TestPolicy_SuggestedWait(t *testing.T) {
	newHTTPPolicy := func(t *testing.T, respect bool, maxDelay time.Duration) *Policy {
		t.Helper()
		p, err := NewPolicy(PolicyConfig{
			MaxAttempts:          3,
			BaseDelay:            100 * time.Millisecond,
			MaxDelay:             maxDelay,
			Multiplier:           2.0,
			Classifier:           xclassify.NewHTTPClassifier(),
			RespectSuggestedWait: respect,
		})
		require.NoError(t, err)
		return p
	}

	throttled := func(retryAfter string) error {
		header := http.Header{}
		header.Set("Retry-After", retryAfter)
		return xclassify.NewHTTPError(http.StatusTooManyRequests, header, nil)
	}

	t.Run("ReturnsServerHint", func(t *testing.T) {
		p := newHTTPPolicy(t, true, 10*time.Second)

		wait, ok := p.SuggestedWait(throttled("2"))
		assert.True(t, ok)
		assert.Equal(t, 2*time.Second, wait)
	})

	t.Run("CappedAtMaxDelay", func(t *testing.T) {
		p := newHTTPPolicy(t, true, 5*time.Second)

		wait, ok := p.SuggestedWait(throttled("120"))
		assert.True(t, ok)
		assert.Equal(t, 5*time.Second, wait)
	})

	t.Run("DisabledByDefault", func(t *testing.T) {
		p := newHTTPPolicy(t, false, 10*time.Second)

		_, ok := p.SuggestedWait(throttled("2"))
		assert.False(t, ok)
	})

	t.Run("NoClassifierNoHint", func(t *testing.T) {
		p, err := NewPolicy(PolicyConfig{
			MaxAttempts:          3,
			Multiplier:           1.0,
			RespectSuggestedWait: true,
		})
		require.NoError(t, err)

		_, ok := p.SuggestedWait(throttled("2"))
		assert.False(t, ok)
	})

	t.Run("NoHintOnPlainError", func(t *testing.T) {
		p := newHTTPPolicy(t, true, 10*time.Second)

		_, ok := p.SuggestedWait(errors.New("connection reset"))
		assert.False(t, ok)
	})
}

func TestPresets(t *testing.T) {
	t.Run("StoragePolicy", func(t *testing.T) {
		p := StoragePolicy()

		assert.Equal(t, 5, p.MaxAttempts())
		assert.Equal(t, time.Second, p.BaseDelay())
		assert.Equal(t, 30*time.Second, p.MaxDelay())
		assert.Equal(t, 2.0, p.Multiplier())
		assert.Equal(t, time.Second, p.Jitter())
		assert.False(t, p.RespectSuggestedWait())
		assert.NotNil(t, p.Classifier())
	})

	t.Run("APICallPolicy", func(t *testing.T) {
		p := APICallPolicy()

		assert.Equal(t, 3, p.MaxAttempts())
		assert.Equal(t, 500*time.Millisecond, p.BaseDelay())
		assert.Equal(t, 10*time.Second, p.MaxDelay())
		assert.Equal(t, 2.0, p.Multiplier())
		assert.Equal(t, 500*time.Millisecond, p.Jitter())
		assert.True(t, p.RespectSuggestedWait())
		assert.NotNil(t, p.Classifier())
	})

	t.Run("PresetsAreIndependent", func(t *testing.T) {
		// 每次调用返回新实例，调用方无法污染预设
		assert.NotSame(t, StoragePolicy(), StoragePolicy())
	})
}
