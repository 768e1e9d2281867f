package xregistry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/omeyang/xresil/pkg/observability/xobserve"
	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

// Entry 注册表中的一个操作条目
type Entry struct {
	// Policy 该操作的重试策略
	Policy *xretry.Policy

	// Breaker 该操作共享的熔断器，可为 nil（纯重试，无熔断）
	Breaker *xbreaker.Breaker

	executor *xretry.Executor
}

// Registry 按操作名索引的弹性策略注册表
//
// 注册表拥有条目表本身，但只借用其中的熔断器：熔断器的生命周期
// 与依赖绑定，而非与某次调用绑定。所有方法并发安全。
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	sink    xobserve.Sink
}

// RegistryOption 注册表配置选项
type RegistryOption func(*Registry)

// WithSink 设置观测 Sink
//
// 尝试记录与（LoadConfig 创建的）熔断器状态转换都会投递到该 Sink。
// 传入 nil 会被静默忽略。
func WithSink(sink xobserve.Sink) RegistryOption {
	return func(r *Registry) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// NewRegistry 创建注册表
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register 注册一个操作
//
// breaker 可为 nil。重复注册同名操作返回 ErrDuplicateOperation，
// 已有条目不受影响。
func (r *Registry) Register(name string, policy *xretry.Policy, breaker *xbreaker.Breaker) error {
	if name == "" {
		return ErrEmptyName
	}
	if policy == nil {
		return ErrNilPolicy
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, name)
	}
	r.entries[name] = r.buildEntry(name, policy, breaker)
	return nil
}

// buildEntry 组装条目并预构建执行器
// 执行器无跨调用状态，可被并发复用
func (r *Registry) buildEntry(name string, policy *xretry.Policy, breaker *xbreaker.Breaker) Entry {
	opts := make([]xretry.ExecutorOption, 0, 2)
	if breaker != nil {
		opts = append(opts, xretry.WithBreaker(breaker))
	}
	if r.sink != nil {
		opts = append(opts, xretry.WithOnAttempt(r.sink.OnAttempt))
	}
	return Entry{
		Policy:   policy,
		Breaker:  breaker,
		executor: xretry.NewExecutor(name, policy, opts...),
	}
}

// Lookup 查找操作条目
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// Names 返回已注册的操作名，按字典序排序
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Do 以指定操作的策略执行一次受保护调用
//
// 操作未注册时返回 ErrUnknownOperation。其余语义与
// xretry.Executor.Execute 一致。
func (r *Registry) Do(ctx context.Context, name string, fn func(ctx context.Context) error) (xretry.Outcome, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return xretry.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return entry.executor.Execute(ctx, fn)
}

// ObserveTransition 把熔断器状态转换转发到注册表的 Sink
//
// 供手工构建熔断器的调用方接线：
//
//	b, _ := xbreaker.NewBreaker("dep", cfg,
//		xbreaker.WithOnStateChange(reg.ObserveTransition),
//	)
func (r *Registry) ObserveTransition(trans xbreaker.Transition) {
	if r.sink != nil {
		r.sink.OnTransition(trans)
	}
}

// Snapshots 返回全部带熔断器条目的当前快照，按操作名排序
// 供监控面板轮询
func (r *Registry) Snapshots() []xbreaker.Snapshot {
	r.mu.RLock()
	names := make([]string, 0, len(r.entries))
	breakers := make(map[string]*xbreaker.Breaker, len(r.entries))
	for name, entry := range r.entries {
		if entry.Breaker != nil {
			names = append(names, name)
			breakers[name] = entry.Breaker
		}
	}
	r.mu.RUnlock()

	// 快照在注册表锁外逐个获取，避免持锁触发熔断器内部锁
	sort.Strings(names)
	snaps := make([]xbreaker.Snapshot, 0, len(names))
	for _, name := range names {
		snaps = append(snaps, breakers[name].Snapshot())
	}
	return snaps
}
