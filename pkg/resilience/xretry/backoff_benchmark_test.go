package xretry

import (
	"testing"
	"time"
)

func newBenchSchedule(b *testing.B, jitter time.Duration) *Schedule {
	b.Helper()
	p, err := NewPolicy(PolicyConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      jitter,
	})
	if err != nil {
		b.Fatal(err)
	}
	return NewSchedule(p)
}

func BenchmarkSchedule_Delay(b *testing.B) {
	s := newBenchSchedule(b, 0)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = s.Delay(3)
	}
}

// 含抖动的路径每次都要读 crypto/rand，基准用于对照无抖动路径的开销
func BenchmarkSchedule_DelayWithJitter(b *testing.B) {
	s := newBenchSchedule(b, time.Second)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = s.Delay(3)
	}
}
