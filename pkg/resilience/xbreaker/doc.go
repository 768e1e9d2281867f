// Package xbreaker 提供熔断器功能，阻止对持续故障依赖的反复调用。
//
// # 熔断器状态
//
//   - StateClosed（关闭）：正常状态，请求放行，连续失败会被统计
//   - StateOpen（打开）：熔断状态，请求直接被拒绝，不会触达依赖方
//   - StateHalfOpen（半开）：探测状态，放行请求以检测依赖是否恢复
//
// 状态转换：
//   - Closed 下连续失败达到 FailureThreshold 次 → Open
//   - Open 停留满 RecoveryTimeout 后，下一次 Allow/State 惰性转入 HalfOpen
//   - HalfOpen 下任意一次失败 → 立即回到 Open
//   - HalfOpen 下连续成功达到 SuccessThreshold 次 → Closed
//
// 任何状态转换都会清零计数器，并以 (name, from, to, at) 四元组
// 通知 WithOnStateChange 回调。
//
// # 并发模型
//
// 同名操作的所有并发调用共享同一个 Breaker 实例。Allow / RecordSuccess /
// RecordFailure 均由单个互斥锁保护；锁只覆盖计数读写，从不跨越被保护
// 操作本身。状态回调在锁外触发。
//
// # 与 gobreaker 的关系
//
// State 类型及其常量是 [sony/gobreaker/v2] 的别名，拒绝错误包装其
// ErrOpenState 哨兵，便于与基于 gobreaker 的调用方和日志管线互通。
// 状态机本身是自有实现：时钟可注入（WithClock），成功/失败由调用方
// 通过 RecordSuccess / RecordFailure 显式上报。
//
// [sony/gobreaker/v2]: https://github.com/sony/gobreaker
package xbreaker
