// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xobserve: 弹性事件落地（slog 结构化日志、OpenTelemetry 指标）
//
// 设计原则：
//   - 核心包只产出事件记录，不做任何 I/O，落地由 Sink 完成
//   - 遵循 OpenTelemetry 语义规范
package observability
