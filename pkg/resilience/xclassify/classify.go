package xclassify

import "time"

// Classifier 错误分类器接口
//
// 把一次调用尝试观察到的错误映射为「可重试 / 不可重试」二元判定，
// 并在可能时提取依赖方给出的建议等待时间（例如限流冷却提示）。
//
// 实现必须是纯函数：不产生副作用，只检查错误值。
type Classifier interface {
	// Retryable 判断错误是否值得再次尝试
	// nil 错误视为成功，返回 false
	Retryable(err error) bool

	// SuggestedWait 提取依赖方建议的等待时间
	// 第二个返回值表示错误中是否携带此类提示
	SuggestedWait(err error) (time.Duration, bool)
}

// SuggestedWaiter 建议等待时间接口
//
// 错误类型实现此接口即可向分类器暴露依赖方给出的冷却提示。
// HTTPError 是内置实现。
type SuggestedWaiter interface {
	SuggestedWait() (time.Duration, bool)
}
