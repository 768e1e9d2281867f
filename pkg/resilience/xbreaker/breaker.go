package xbreaker

import (
	"sync"
	"time"
)

// Config 熔断器配置，构造后不可变
type Config struct {
	// FailureThreshold 触发熔断所需的连续失败次数（>= 1）
	FailureThreshold int

	// RecoveryTimeout Open 状态的停留时间，超过后转入 HalfOpen 探测（> 0）
	RecoveryTimeout time.Duration

	// SuccessThreshold HalfOpen 状态下恢复 Closed 所需的连续成功次数（>= 1）
	SuccessThreshold int
}

// Validate 校验配置
// 违反约束是构造期错误，不是运行期错误
func (c Config) Validate() error {
	if c.FailureThreshold < 1 {
		return ErrInvalidFailureThreshold
	}
	if c.RecoveryTimeout <= 0 {
		return ErrInvalidRecoveryTimeout
	}
	if c.SuccessThreshold < 1 {
		return ErrInvalidSuccessThreshold
	}
	return nil
}

// DefaultConfig 返回默认配置
// 连续失败 5 次熔断，60 秒后探测，1 次成功恢复
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 1,
	}
}

// Transition 一次状态转换记录
type Transition struct {
	Name string    // 熔断器名称
	From State     // 旧状态
	To   State     // 新状态
	At   time.Time // 转换时间
}

// Snapshot 熔断器状态快照，供监控面板读取
type Snapshot struct {
	Name                 string
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastFailure          time.Time // 零值表示尚无失败
	LastTransition       time.Time
}

// Breaker 熔断器状态机
//
// 一个逻辑依赖（操作名）对应一个 Breaker 实例，随进程存活，由该操作的
// 所有并发调用共享。状态不跨进程持久化。
//
// 三个状态是封闭集合，用 State 枚举表达而非子类型，保证转换表可以被
// switch 穷尽检查。
type Breaker struct {
	name          string
	cfg           Config
	now           func() time.Time
	onStateChange func(Transition)

	mu                   sync.Mutex
	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	lastFailure          time.Time
	lastTransition       time.Time
}

// Option 熔断器配置选项
type Option func(*Breaker)

// WithClock 注入时钟源
//
// 默认使用 time.Now。测试中注入假时钟即可模拟 RecoveryTimeout 流逝，
// 无需真实等待。
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

// WithOnStateChange 设置状态变化回调
//
// 每次状态转换都会以 (name, from, to, at) 通知回调，可用于日志和监控。
// 回调在锁外触发，不同 goroutine 引发的转换其回调可能交错送达，
// Transition.At 才是权威的转换时间。回调不应阻塞。
func WithOnStateChange(f func(Transition)) Option {
	return func(b *Breaker) {
		b.onStateChange = f
	}
}

// NewBreaker 创建熔断器
//
// name 标识被保护的逻辑依赖，用于日志和监控。
// cfg 不合法时返回构造错误，绝不带病运行。
func NewBreaker(name string, cfg Config, opts ...Option) (*Breaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Breaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.lastTransition = b.now()

	return b, nil
}

// Name 返回熔断器名称
func (b *Breaker) Name() string {
	return b.name
}

// Config 返回熔断器配置
func (b *Breaker) Config() Config {
	return b.cfg
}

// Allow 判断当前是否放行请求
//
// Open 状态下返回 false；满 RecoveryTimeout 后的第一次调用会惰性转入
// HalfOpen 并放行。HalfOpen 与 Closed 均放行。
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	now := b.now()
	trans := b.advanceLocked(now)
	allowed := b.state != StateOpen
	b.mu.Unlock()

	b.notify(trans)
	return allowed
}

// RecordSuccess 上报一次成功
//
// Closed 下清零连续失败计数；HalfOpen 下累计连续成功，达到
// SuccessThreshold 后恢复 Closed。
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	now := b.now()
	trans := b.advanceLocked(now)

	switch b.state {
	case StateClosed:
		b.consecutiveFailures = 0
	case StateHalfOpen:
		b.consecutiveSuccesses++
		if b.consecutiveSuccesses >= b.cfg.SuccessThreshold {
			trans = append(trans, b.transitionLocked(StateClosed, now))
		}
	case StateOpen:
		// 放行后才熔断的并发迟到上报，忽略
	}
	b.mu.Unlock()

	b.notify(trans)
}

// RecordFailure 上报一次失败
//
// 无论失败本身是否可重试都应上报：一串不可重试的失败（如反复的认证
// 错误）同样说明依赖不健康。可重试与否只影响重试循环，不影响熔断统计。
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	now := b.now()
	trans := b.advanceLocked(now)
	b.lastFailure = now

	switch b.state {
	case StateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			trans = append(trans, b.transitionLocked(StateOpen, now))
		}
	case StateHalfOpen:
		// 探测失败，立即回到 Open
		trans = append(trans, b.transitionLocked(StateOpen, now))
	case StateOpen:
		// 已经打开，只刷新失败时间
	}
	b.mu.Unlock()

	b.notify(trans)
}

// State 返回当前状态
// 与 Allow 一样执行惰性的 Open → HalfOpen 检查
func (b *Breaker) State() State {
	b.mu.Lock()
	trans := b.advanceLocked(b.now())
	s := b.state
	b.mu.Unlock()

	b.notify(trans)
	return s
}

// Snapshot 返回状态快照
// 快照在单次加锁内读取，各字段彼此一致
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	trans := b.advanceLocked(b.now())
	snap := Snapshot{
		Name:                 b.name,
		State:                b.state,
		ConsecutiveFailures:  b.consecutiveFailures,
		ConsecutiveSuccesses: b.consecutiveSuccesses,
		LastFailure:          b.lastFailure,
		LastTransition:       b.lastTransition,
	}
	b.mu.Unlock()

	b.notify(trans)
	return snap
}

// advanceLocked 执行惰性的 Open → HalfOpen 检查，调用方必须持锁
func (b *Breaker) advanceLocked(now time.Time) []Transition {
	if b.state == StateOpen && now.Sub(b.lastTransition) >= b.cfg.RecoveryTimeout {
		return []Transition{b.transitionLocked(StateHalfOpen, now)}
	}
	return nil
}

// transitionLocked 执行状态转换并清零计数器，调用方必须持锁
//
// 计数器在任何转换上都清零，包括惰性转换刚发生后紧跟的失败——它算作
// HalfOpen 的探测失败（立即重开），不计入未来 Closed 周期。
func (b *Breaker) transitionLocked(to State, now time.Time) Transition {
	from := b.state
	b.state = to
	b.lastTransition = now
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
	return Transition{Name: b.name, From: from, To: to, At: now}
}

// notify 在锁外触发状态变化回调
func (b *Breaker) notify(trans []Transition) {
	if b.onStateChange == nil {
		return
	}
	for _, t := range trans {
		b.onStateChange(t)
	}
}
