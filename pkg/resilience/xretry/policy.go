package xretry

import (
	"errors"
	"fmt"
	"time"

	"github.com/omeyang/xresil/pkg/resilience/xclassify"
)

// PolicyConfig 重试策略配置
type PolicyConfig struct {
	// MaxAttempts 总尝试次数（含首次），>= 1
	MaxAttempts int

	// BaseDelay 退避基础延迟，>= 0
	BaseDelay time.Duration

	// MaxDelay 退避延迟上限，>= BaseDelay
	MaxDelay time.Duration

	// Multiplier 逐次指数增长因子，>= 1.0（1.0 表示固定延迟）
	Multiplier float64

	// Jitter 每次退避叠加的随机抖动上限，>= 0
	Jitter time.Duration

	// Classifier 错误分类器，可为 nil
	// nil 时退回标记判定：显式标记的错误按标记，未知错误视为可重试
	Classifier xclassify.Classifier

	// RespectSuggestedWait 是否采纳分类器提取的建议等待时间
	// 采纳时该值整体替换退避公式结果（封顶 MaxDelay，不叠加抖动）
	RespectSuggestedWait bool
}

// Policy 一类操作的不可变重试策略
// 构造后只读，可被任意多个 Executor 并发共享
type Policy struct {
	cfg PolicyConfig
}

// NewPolicy 创建重试策略，校验配置约束
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxAttempts, cfg.MaxAttempts)
	}
	if cfg.BaseDelay < 0 || cfg.MaxDelay < cfg.BaseDelay {
		return nil, fmt.Errorf("%w: base=%v max=%v", ErrInvalidDelayBounds, cfg.BaseDelay, cfg.MaxDelay)
	}
	if cfg.Multiplier < 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidMultiplier, cfg.Multiplier)
	}
	if cfg.Jitter < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidJitter, cfg.Jitter)
	}
	return &Policy{cfg: cfg}, nil
}

// MaxAttempts 返回总尝试次数
func (p *Policy) MaxAttempts() int {
	return p.cfg.MaxAttempts
}

// BaseDelay 返回退避基础延迟
func (p *Policy) BaseDelay() time.Duration {
	return p.cfg.BaseDelay
}

// MaxDelay 返回退避延迟上限
func (p *Policy) MaxDelay() time.Duration {
	return p.cfg.MaxDelay
}

// Multiplier 返回指数增长因子
func (p *Policy) Multiplier() float64 {
	return p.cfg.Multiplier
}

// Jitter 返回随机抖动上限
func (p *Policy) Jitter() time.Duration {
	return p.cfg.Jitter
}

// RespectSuggestedWait 返回是否采纳建议等待
func (p *Policy) RespectSuggestedWait() bool {
	return p.cfg.RespectSuggestedWait
}

// Classifier 返回错误分类器，可能为 nil
func (p *Policy) Classifier() xclassify.Classifier {
	return p.cfg.Classifier
}

// Retryable 判断错误是否值得再次尝试
//
// 配置了分类器时完全委托给它；否则先看显式标记（PermanentError /
// TemporaryError 等），未标记的错误默认可重试。
func (p *Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if p.cfg.Classifier != nil {
		return p.cfg.Classifier.Retryable(err)
	}
	if retryable, ok := markedRetryable(err); ok {
		return retryable
	}
	return true
}

// SuggestedWait 提取建议等待时间并按 MaxDelay 封顶
// 仅在 RespectSuggestedWait 开启且分类器给出提示时返回 true
func (p *Policy) SuggestedWait(err error) (time.Duration, bool) {
	if !p.cfg.RespectSuggestedWait || p.cfg.Classifier == nil {
		return 0, false
	}
	wait, ok := p.cfg.Classifier.SuggestedWait(err)
	if !ok || wait <= 0 {
		return 0, false
	}
	if wait > p.cfg.MaxDelay {
		wait = p.cfg.MaxDelay
	}
	return wait, true
}

// markedRetryable 检查错误链上的显式可重试标记
func markedRetryable(err error) (retryable, ok bool) {
	var re xclassify.RetryableError
	if errors.As(err, &re) {
		return re.Retryable(), true
	}
	return false, false
}
