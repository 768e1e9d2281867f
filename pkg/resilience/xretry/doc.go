// Package xretry 提供带指数退避的重试执行器，以及与熔断器的组合编排。
//
// # 设计理念
//
// xretry 把一次「逻辑调用」拆成若干次「尝试」：每次尝试前询问熔断器
// 是否放行，尝试失败后交给分类器判定是否值得再试，并按退避调度计算
// 下一次尝试前的等待时间。底层重试循环使用 [avast/retry-go/v5] 实现。
//
// 组成：
//   - Policy：一类操作的不可变重试配置（次数、退避边界、分类器）
//   - Schedule：退避调度，delay = min(maxDelay, baseDelay × multiplier^(n-1)) + 随机抖动
//   - Executor：编排单次逻辑调用的全部尝试，返回 Outcome
//
// # 与熔断器的协作
//
// 每次尝试前经过 Breaker.Allow 检查；无论错误是否可重试，每次失败都
// 会上报 RecordFailure——一串不可重试的失败同样是依赖不健康的证据。
// 熔断拒绝以 CircuitRejected 标记区分于重试耗尽，调用方可分别处理。
//
// # 建议等待
//
// 当策略开启 RespectSuggestedWait 且分类器从错误中提取到依赖方的
// 冷却提示（如 Retry-After）时，该值整体替换退避公式的结果（封顶
// MaxDelay），且不再叠加抖动——故意超出依赖方声明的冷却时间没有意义。
//
// # 预设策略
//
//   - StoragePolicy：对象存储操作（5 次，1s..30s，抖动 ≤ 1s）
//   - APICallPolicy：HTTP API 调用（3 次，500ms..10s，抖动 ≤ 500ms，
//     采纳 Retry-After 建议等待）
//
// # 可测试性
//
// 抖动随机源（WithRand）、等待计时器（WithTimer）均可注入，
// 测试无需真实等待即可校验重试时间线。
//
// [avast/retry-go/v5]: https://github.com/avast/retry-go
package xretry
