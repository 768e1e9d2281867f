package xbreaker

import (
	"errors"
	"fmt"
	"time"
)

// 配置校验错误
var (
	// ErrInvalidFailureThreshold FailureThreshold 必须 >= 1
	ErrInvalidFailureThreshold = errors.New("xbreaker: failure threshold must be at least 1")

	// ErrInvalidSuccessThreshold SuccessThreshold 必须 >= 1
	ErrInvalidSuccessThreshold = errors.New("xbreaker: success threshold must be at least 1")

	// ErrInvalidRecoveryTimeout RecoveryTimeout 必须 > 0
	ErrInvalidRecoveryTimeout = errors.New("xbreaker: recovery timeout must be positive")
)

// CircuitError 熔断拒绝错误
//
// 当 Allow 返回 false 时，执行层用此错误向调用方报告「请求被熔断器
// 拒绝」。它与依赖方自身的失败是两类条件：调用方可据此走降级逻辑，
// 而不是把它当作依赖返回的错误处理。
//
// 实现 Retryable() 返回 false：熔断拒绝说明依赖不可用，继续退避重试
// 没有意义，应该快速失败。
// 设计决策: Name/At 保留为导出字段，便于调用方在日志和监控中直接读取。
type CircuitError struct {
	Name string    // 熔断器名称
	At   time.Time // 拒绝发生时间
}

// NewCircuitError 创建熔断拒绝错误
func NewCircuitError(name string, at time.Time) *CircuitError {
	return &CircuitError{Name: name, At: at}
}

// Error 实现 error 接口
func (e *CircuitError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("breaker %s: %v", e.Name, ErrOpenState)
	}
	return ErrOpenState.Error()
}

// Unwrap 返回 gobreaker 的 ErrOpenState 哨兵
func (e *CircuitError) Unwrap() error {
	return ErrOpenState
}

// Retryable 实现可重试错误标记接口，熔断拒绝不可重试
func (e *CircuitError) Retryable() bool {
	return false
}

// IsOpen 检查错误是否是熔断拒绝
//
// 示例:
//
//	out, err := exec.Execute(ctx, op)
//	if xbreaker.IsOpen(err) {
//	    return fallbackValue, nil // 走降级逻辑
//	}
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpenState)
}
