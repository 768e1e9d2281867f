package xretry

import (
	"time"

	"github.com/omeyang/xresil/pkg/resilience/xclassify"
)

// StoragePolicy 对象存储操作预设策略
//
// 5 次尝试，1s 起步指数退避封顶 30s，抖动 ≤ 1s，
// 绑定 StorageClassifier（限流/内部错误可重试，权限/缺失不可重试）。
func StoragePolicy() *Policy {
	return mustPolicy(PolicyConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      time.Second,
		Classifier:  xclassify.NewStorageClassifier(),
	})
}

// APICallPolicy HTTP API 调用预设策略
//
// 3 次尝试，500ms 起步指数退避封顶 10s，抖动 ≤ 500ms，
// 绑定 HTTPClassifier 并采纳 Retry-After 建议等待。
func APICallPolicy() *Policy {
	return mustPolicy(PolicyConfig{
		MaxAttempts:          3,
		BaseDelay:            500 * time.Millisecond,
		MaxDelay:             10 * time.Second,
		Multiplier:           2.0,
		Jitter:               500 * time.Millisecond,
		Classifier:           xclassify.NewHTTPClassifier(),
		RespectSuggestedWait: true,
	})
}

// mustPolicy 预设配置不会违反约束，违反即为程序缺陷
func mustPolicy(cfg PolicyConfig) *Policy {
	p, err := NewPolicy(cfg)
	if err != nil {
		panic(err)
	}
	return p
}
