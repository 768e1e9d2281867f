package xbreaker

import (
	"github.com/sony/gobreaker/v2"
)

// State 熔断器状态，gobreaker 的类型别名
// 用户可以直接与基于 gobreaker 的代码互通，无需类型转换
type State = gobreaker.State

// 熔断器状态常量
const (
	// StateClosed 关闭状态（正常）
	StateClosed = gobreaker.StateClosed

	// StateHalfOpen 半开状态（探测）
	StateHalfOpen = gobreaker.StateHalfOpen

	// StateOpen 打开状态（熔断）
	StateOpen = gobreaker.StateOpen
)

// ErrOpenState 熔断器处于打开状态时的拒绝哨兵，复用 gobreaker 的定义
// CircuitError 包装此哨兵，errors.Is(err, ErrOpenState) 对两者都成立
var ErrOpenState = gobreaker.ErrOpenState
