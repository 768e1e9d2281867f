package xobserve

import (
	"log/slog"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

// SlogSink 把事件写入 log/slog 结构化日志
//
// 日志级别约定：
//   - 成功尝试 → Debug（高频事件，默认不淹没日志）
//   - 失败尝试 → Warn
//   - 状态转换 → Info（进入 Open 时为 Warn）
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink 创建 slog Sink
// logger 为 nil 时使用 slog.Default()
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// OnAttempt 记录一次尝试
func (s *SlogSink) OnAttempt(record xretry.AttemptRecord) {
	if record.Err == nil {
		s.logger.Debug("attempt succeeded",
			slog.String("operation", record.Operation),
			slog.Int("attempt", record.Attempt),
		)
		return
	}
	s.logger.Warn("attempt failed",
		slog.String("operation", record.Operation),
		slog.Int("attempt", record.Attempt),
		slog.String("error", record.Err.Error()),
		slog.Bool("retryable", record.Retryable),
		slog.Duration("delay", record.Delay),
	)
}

// OnTransition 记录一次熔断器状态转换
func (s *SlogSink) OnTransition(trans xbreaker.Transition) {
	attrs := []any{
		slog.String("breaker", trans.Name),
		slog.String("from_state", trans.From.String()),
		slog.String("to_state", trans.To.String()),
	}
	if trans.To == xbreaker.StateOpen {
		s.logger.Warn("circuit opened", attrs...)
		return
	}
	s.logger.Info("circuit state changed", attrs...)
}

var _ Sink = (*SlogSink)(nil)
