// Package xobserve 提供弹性核心的观测接入。
//
// 核心包（xretry / xbreaker）只产出事件记录，不做任何 I/O；
// 本包把这些记录落到具体的观测后端：
//
//   - SlogSink: 结构化日志（log/slog）
//   - OTelSink: OpenTelemetry 指标（计数器 + 直方图）
//   - Fanout: 同一事件广播给多个 Sink
//
// 基本用法：
//
//	sink := xobserve.NewSlogSink(logger)
//	executor := xretry.NewExecutor("upload", policy,
//		xretry.WithOnAttempt(sink.OnAttempt),
//	)
//
// Sink 实现必须可并发调用：不同操作的执行器会在各自的 goroutine
// 上投递记录。
package xobserve
