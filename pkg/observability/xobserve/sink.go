package xobserve

import (
	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

// Sink 接收弹性核心产出的事件记录
//
// 实现必须可并发调用，且不应阻塞：记录在重试循环和熔断器
// 状态转换的热路径上投递。
type Sink interface {
	// OnAttempt 接收一次重试尝试记录
	OnAttempt(record xretry.AttemptRecord)

	// OnTransition 接收一次熔断器状态转换
	OnTransition(trans xbreaker.Transition)
}

// NoopSink 丢弃所有事件的 Sink
type NoopSink struct{}

// NewNoopSink 创建空 Sink
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// OnAttempt 丢弃尝试记录
func (*NoopSink) OnAttempt(xretry.AttemptRecord) {}

// OnTransition 丢弃状态转换
func (*NoopSink) OnTransition(xbreaker.Transition) {}

// Fanout 把事件广播给多个 Sink
// nil 成员被跳过；无有效成员时等价于 NoopSink
func Fanout(sinks ...Sink) Sink {
	valid := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			valid = append(valid, s)
		}
	}
	return &fanoutSink{sinks: valid}
}

type fanoutSink struct {
	sinks []Sink
}

func (f *fanoutSink) OnAttempt(record xretry.AttemptRecord) {
	for _, s := range f.sinks {
		s.OnAttempt(record)
	}
}

func (f *fanoutSink) OnTransition(trans xbreaker.Transition) {
	for _, s := range f.sinks {
		s.OnTransition(trans)
	}
}

var (
	_ Sink = (*NoopSink)(nil)
	_ Sink = (*fanoutSink)(nil)
)
