package xretry

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// Schedule 退避调度
// delay = min(maxDelay, baseDelay × multiplier^(attempt-1)) + uniform(0, jitter)
//
// 从 Policy 构造，随机源可注入以便测试取得确定性延迟。
type Schedule struct {
	base       time.Duration
	max        time.Duration
	multiplier float64
	jitter     time.Duration
	rand       func() float64
}

// ScheduleOption 退避调度配置选项
type ScheduleOption func(*Schedule)

// WithRand 注入随机源
//
// f 返回 [0, 1) 区间内的值。默认使用 crypto/rand。
// 测试注入常量函数即可获得确定性抖动。
func WithRand(f func() float64) ScheduleOption {
	return func(s *Schedule) {
		if f != nil {
			s.rand = f
		}
	}
}

// NewSchedule 从策略创建退避调度
func NewSchedule(p *Policy, opts ...ScheduleOption) *Schedule {
	s := &Schedule{
		base:       p.BaseDelay(),
		max:        p.MaxDelay(),
		multiplier: p.Multiplier(),
		jitter:     p.Jitter(),
		rand:       randomFloat64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay 返回第 attempt 次尝试失败后的退避延迟
// attempt 从 1 开始；结果永不为负，仅当 base 与 jitter 均为 0 时为 0
func (s *Schedule) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	raw := float64(s.base) * math.Pow(s.multiplier, float64(attempt-1))

	// 设计决策: NaN 安全的延迟限制。attempt 极大时 math.Pow 溢出为 +Inf，
	// IEEE 754 中 NaN 的所有比较均返回 false，会绕过上限检查。
	// NaN/负数按已达上限处理。
	delay := s.max
	if !math.IsNaN(raw) && raw >= 0 && raw < float64(s.max) {
		delay = time.Duration(raw)
	}

	if s.jitter > 0 {
		delay += time.Duration(s.rand() * float64(s.jitter))
	}
	return delay
}

const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// randomFloat64 返回 [0, 1) 内的安全随机数
func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand 失败时返回 0，即无抖动（安全默认值）
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
