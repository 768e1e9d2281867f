package xretry

import (
	"context"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
)

// Timer 重试等待计时器接口，avast/retry-go/v5 的类型别名
// 测试中注入假计时器即可捕获延迟序列而无需真实等待
type Timer = retry.Timer

// Breaker 执行器所需的最小熔断器能力
// *xbreaker.Breaker 实现了此接口
type Breaker interface {
	// Name 返回熔断器名称
	Name() string
	// Allow 判断当前是否放行请求
	Allow() bool
	// RecordSuccess 上报一次成功
	RecordSuccess()
	// RecordFailure 上报一次失败
	RecordFailure()
}

// AttemptRecord 单次尝试记录，供观测回调消费
type AttemptRecord struct {
	Operation string        // 操作名
	Attempt   int           // 尝试序号（从 1 开始）
	Err       error         // 本次尝试的错误，nil 表示成功
	Retryable bool          // 分类结果（Err 为 nil 时恒为 false）
	Delay     time.Duration // 本次失败后的退避延迟（终态尝试为 0）
}

// Outcome 一次逻辑调用的终态
//
// Succeeded 为 false 时，Attempts / LastErr / CircuitRejected 共同携带
// 调用方记录日志、告警或降级所需的全部信息——错误绝不被静默吞掉。
type Outcome struct {
	// Succeeded 是否最终成功
	Succeeded bool

	// Attempts 实际发起的尝试次数
	// 熔断器在首次尝试前就拒绝时为 0
	Attempts int

	// LastErr 最后一次尝试的底层错误，成功时为 nil
	LastErr error

	// Elapsed 整个逻辑调用的耗时（含退避等待）
	Elapsed time.Duration

	// CircuitRejected 是否被熔断器拒绝
	// 区分「重试耗尽」与「熔断器根本没放行」两种失败
	CircuitRejected bool
}

// Executor 重试执行器
//
// 编排单次逻辑调用的全部尝试：询问熔断器 → 执行操作 → 分类错误 →
// 上报熔断器 → 按调度退避。尝试在调用内严格串行，绝不重叠；
// 退避等待期间不持有任何共享锁。
//
// 底层重试循环使用 avast/retry-go/v5 实现。
type Executor struct {
	operation string
	policy    *Policy
	schedule  *Schedule
	breaker   Breaker
	onAttempt func(AttemptRecord)
	timer     Timer
}

// ExecutorOption 执行器配置选项
type ExecutorOption func(*Executor)

// WithBreaker 绑定共享的熔断器
//
// 执行器只借用熔断器，从不拥有它：同名操作的所有并发调用
// 应传入同一个实例。
func WithBreaker(b Breaker) ExecutorOption {
	return func(e *Executor) {
		e.breaker = b
	}
}

// WithOnAttempt 设置每次尝试的观测回调
// 传入 nil 会被静默忽略
func WithOnAttempt(f func(AttemptRecord)) ExecutorOption {
	return func(e *Executor) {
		if f != nil {
			e.onAttempt = f
		}
	}
}

// WithTimer 注入等待计时器（主要用于测试）
func WithTimer(t Timer) ExecutorOption {
	return func(e *Executor) {
		if t != nil {
			e.timer = t
		}
	}
}

// WithSchedule 覆盖默认的退避调度
// 用于注入确定性随机源，如 NewSchedule(policy, WithRand(...))
func WithSchedule(s *Schedule) ExecutorOption {
	return func(e *Executor) {
		if s != nil {
			e.schedule = s
		}
	}
}

// NewExecutor 创建重试执行器
//
// operation 标识被保护的逻辑操作，用于尝试记录和日志。
// policy 为 nil 时 Execute 返回 ErrNilPolicy。
func NewExecutor(operation string, policy *Policy, opts ...ExecutorOption) *Executor {
	e := &Executor{
		operation: operation,
		policy:    policy,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.schedule == nil && policy != nil {
		e.schedule = NewSchedule(policy)
	}
	return e
}

// Execute 执行一次受保护的逻辑调用
//
// 每轮尝试：
//  1. 熔断器未放行 → 立即终止，CircuitRejected = true，操作不会被调用
//  2. 调用操作
//  3. 成功 → 上报 RecordSuccess，返回
//  4. 失败 → 上报 RecordFailure（无论是否可重试）；不可重试或尝试
//     耗尽则终止，否则按调度（或建议等待）退避后进入下一轮
//
// 退避等待期间 context 被取消时立即返回，Outcome 反映已完成的尝试。
// 返回的 error 是终态错误：成功为 nil，熔断拒绝为 *xbreaker.CircuitError，
// 等待中取消为 context 错误，其余为最后一次尝试的底层错误。
func (e *Executor) Execute(ctx context.Context, fn func(ctx context.Context) error) (Outcome, error) {
	if e == nil {
		return Outcome{}, ErrNilExecutor
	}
	if ctx == nil {
		return Outcome{}, ErrNilContext
	}
	if fn == nil {
		return Outcome{}, ErrNilFunc
	}
	if e.policy == nil {
		return Outcome{}, ErrNilPolicy
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	start := time.Now()

	// 执行状态只在本次调用内按串行顺序访问：尝试严格串行，
	// RetryIf/DelayType 闭包与操作闭包不会并发执行
	var (
		attempts int
		lastErr  error
		rejected bool
		pending  *AttemptRecord
	)

	emit := func() {
		if pending == nil {
			return
		}
		if e.onAttempt != nil {
			e.onAttempt(*pending)
		}
		pending = nil
	}

	wrapped := func() error {
		if e.breaker != nil && !e.breaker.Allow() {
			rejected = true
			return xbreaker.NewCircuitError(e.breaker.Name(), time.Now())
		}

		attempts++
		err := fn(ctx)

		// 失败无论是否可重试都上报：一串不可重试的失败（如反复的
		// 认证错误）同样是依赖不健康的证据
		if e.breaker != nil {
			if err == nil {
				e.breaker.RecordSuccess()
			} else {
				e.breaker.RecordFailure()
			}
		}
		if err != nil {
			lastErr = err
		}

		pending = &AttemptRecord{
			Operation: e.operation,
			Attempt:   attempts,
			Err:       err,
			Retryable: err != nil && e.policy.Retryable(err),
		}
		return err
	}

	opts := make([]retry.Option, 0, 6)
	opts = append(opts, retry.Context(ctx))
	opts = append(opts, retry.Attempts(safeIntToUint(e.policy.MaxAttempts())))
	opts = append(opts, retry.LastErrorOnly(true))

	// CircuitError 实现 Retryable() == false，在这里被分类器的标记
	// 检查拦截，熔断拒绝不会进入退避重试
	opts = append(opts, retry.RetryIf(func(err error) bool {
		return e.policy.Retryable(err)
	}))

	// retry-go v5 中 DelayType 的 n 从 1 开始，与 Schedule.Delay 一致
	opts = append(opts, retry.DelayType(func(n uint, err error, _ retry.DelayContext) time.Duration {
		delay, ok := e.policy.SuggestedWait(err)
		if !ok {
			delay = e.schedule.Delay(safeUintToInt(n))
		}
		if pending != nil {
			pending.Delay = delay
		}
		emit()
		return delay
	}))

	if e.timer != nil {
		opts = append(opts, retry.WithTimer(e.timer))
	}

	err := retry.New(opts...).Do(wrapped)

	// 终态尝试（成功、不可重试、耗尽）没有后续退避，在此补发记录
	emit()

	out := Outcome{
		Succeeded:       err == nil,
		Attempts:        attempts,
		Elapsed:         time.Since(start),
		CircuitRejected: rejected,
	}
	if err != nil {
		out.LastErr = lastErr
		// 熔断拒绝或等待中取消时没有尝试错误，回退到终态错误
		if out.LastErr == nil {
			out.LastErr = err
		}
	}
	return out, err
}

// Operation 返回操作名
func (e *Executor) Operation() string {
	return e.operation
}

// Policy 返回绑定的策略
func (e *Executor) Policy() *Policy {
	return e.policy
}

// safeIntToUint 将 int 安全转换为 uint，负数返回 0
func safeIntToUint(n int) uint {
	if n <= 0 {
		return 0
	}
	return uint(n)
}

// safeUintToInt 将 uint 安全转换为 int，超限截断到 MaxInt
func safeUintToInt(n uint) int {
	if n > uint(math.MaxInt) {
		return math.MaxInt
	}
	return int(n)
}

var _ Breaker = (*xbreaker.Breaker)(nil)
