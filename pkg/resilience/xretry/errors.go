package xretry

import "errors"

// 参数校验错误
var (
	// ErrNilExecutor 执行器为 nil
	ErrNilExecutor = errors.New("xretry: executor cannot be nil")

	// ErrNilContext 传入的 context 为 nil
	ErrNilContext = errors.New("xretry: context cannot be nil")

	// ErrNilFunc 传入的操作函数为 nil
	ErrNilFunc = errors.New("xretry: function cannot be nil")

	// ErrNilPolicy 执行器未配置策略
	ErrNilPolicy = errors.New("xretry: policy cannot be nil")
)

// 策略配置校验错误，构造期返回，绝不延迟到运行期
var (
	// ErrInvalidMaxAttempts MaxAttempts 必须 >= 1
	ErrInvalidMaxAttempts = errors.New("xretry: max attempts must be at least 1")

	// ErrInvalidDelayBounds 需满足 0 <= BaseDelay <= MaxDelay
	ErrInvalidDelayBounds = errors.New("xretry: delay bounds must satisfy 0 <= base <= max")

	// ErrInvalidMultiplier Multiplier 必须 >= 1.0
	ErrInvalidMultiplier = errors.New("xretry: multiplier must be at least 1.0")

	// ErrInvalidJitter Jitter 不能为负
	ErrInvalidJitter = errors.New("xretry: jitter must not be negative")
)
