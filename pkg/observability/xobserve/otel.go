package xobserve

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xresil/xobserve"

	metricAttemptTotal    = "xresil.attempt.total"
	metricRetryDelay      = "xresil.retry.delay"
	metricTransitionTotal = "xresil.breaker.transition.total"

	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// OTelOption OTel Sink 的配置选项
type OTelOption func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称
func WithInstrumentationName(name string) OTelOption {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider
// 默认使用全局 otel.GetMeterProvider()
func WithMeterProvider(provider metric.MeterProvider) OTelOption {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// OTelSink 把事件记录为 OpenTelemetry 指标
//
// 指标：
//   - xresil.attempt.total: 尝试计数器，维度 operation / outcome / retryable
//   - xresil.retry.delay: 退避延迟直方图（秒），维度 operation
//   - xresil.breaker.transition.total: 状态转换计数器，维度 breaker / from / to
type OTelSink struct {
	attempts    metric.Int64Counter
	delay       metric.Float64Histogram
	transitions metric.Int64Counter
}

// NewOTelSink 创建 OTel Sink
func NewOTelSink(opts ...OTelOption) (*OTelSink, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	attempts, err := meter.Int64Counter(
		metricAttemptTotal,
		metric.WithDescription("total retry attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xobserve: create attempt counter failed: %w", err)
	}

	delay, err := meter.Float64Histogram(
		metricRetryDelay,
		metric.WithDescription("backoff delay between attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xobserve: create delay histogram failed: %w", err)
	}

	transitions, err := meter.Int64Counter(
		metricTransitionTotal,
		metric.WithDescription("total circuit breaker state transitions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xobserve: create transition counter failed: %w", err)
	}

	return &OTelSink{
		attempts:    attempts,
		delay:       delay,
		transitions: transitions,
	}, nil
}

// OnAttempt 记录一次尝试
func (s *OTelSink) OnAttempt(record xretry.AttemptRecord) {
	// 记录与请求生命周期解耦，使用独立 context
	ctx := context.Background()

	outcome := outcomeSuccess
	if record.Err != nil {
		outcome = outcomeFailure
	}
	s.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", record.Operation),
		attribute.String("outcome", outcome),
		attribute.Bool("retryable", record.Retryable),
	))

	if record.Delay > 0 {
		s.delay.Record(ctx, record.Delay.Seconds(), metric.WithAttributes(
			attribute.String("operation", record.Operation),
		))
	}
}

// OnTransition 记录一次熔断器状态转换
func (s *OTelSink) OnTransition(trans xbreaker.Transition) {
	s.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("breaker", trans.Name),
		attribute.String("from", trans.From.String()),
		attribute.String("to", trans.To.String()),
	))
}

var _ Sink = (*OTelSink)(nil)
