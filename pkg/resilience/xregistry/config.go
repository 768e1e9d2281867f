package xregistry

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xclassify"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

// Format 声明式配置的数据格式
type Format string

// 支持的配置格式
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式
	FormatJSON Format = "json"
)

// 预设名，对应 xretry 的预设策略
const (
	// PresetStorage 对象存储操作预设
	PresetStorage = "storage"

	// PresetAPI HTTP API 调用预设
	PresetAPI = "api"
)

// 分类器名
const (
	// ClassifierStorage 存储错误分类器
	ClassifierStorage = "storage"

	// ClassifierHTTP HTTP 错误分类器
	ClassifierHTTP = "http"

	// ClassifierNone 不使用分类器（标记判定 + 默认可重试）
	ClassifierNone = "none"
)

// RetrySettings 单个操作的重试配置
//
// 所有字段均为可选覆盖：nil 字段沿用预设值（未指定预设时为零值，
// 由 xretry.NewPolicy 统一校验）。
type RetrySettings struct {
	MaxAttempts          *int           `koanf:"max_attempts"`
	BaseDelay            *time.Duration `koanf:"base_delay"`
	MaxDelay             *time.Duration `koanf:"max_delay"`
	Multiplier           *float64       `koanf:"multiplier"`
	Jitter               *time.Duration `koanf:"jitter"`
	Classifier           *string        `koanf:"classifier"`
	RespectSuggestedWait *bool          `koanf:"respect_suggested_wait"`
}

// BreakerSettings 单个操作的熔断配置
// nil 字段沿用 xbreaker.DefaultConfig()
type BreakerSettings struct {
	FailureThreshold *int           `koanf:"failure_threshold"`
	RecoveryTimeout  *time.Duration `koanf:"recovery_timeout"`
	SuccessThreshold *int           `koanf:"success_threshold"`
}

// OperationSettings 一个操作的完整配置
type OperationSettings struct {
	// Preset 预设名（storage / api），空表示不用预设
	Preset string `koanf:"preset"`

	// Retry 重试覆盖项，可省略
	Retry *RetrySettings `koanf:"retry"`

	// Breaker 熔断覆盖项，可省略（省略时使用默认熔断配置）
	Breaker *BreakerSettings `koanf:"breaker"`
}

// configDocument 配置文件的顶层结构
type configDocument struct {
	Operations map[string]OperationSettings `koanf:"operations"`
}

// LoadConfig 从字节数据批量注册操作
//
// 配置经由与手工注册相同的构造器校验；任一操作非法时整个加载
// 失败，注册表保持不变。已注册的同名操作同样导致整体失败。
//
// YAML 示例：
//
//	operations:
//	  upload:
//	    preset: storage
//	    retry:
//	      max_attempts: 7
//	  query-profile:
//	    preset: api
//	    breaker:
//	      failure_threshold: 3
func (r *Registry) LoadConfig(data []byte, format Format) error {
	doc, err := parseConfig(data, format)
	if err != nil {
		return err
	}

	// 先全部构建，后一次性提交，避免半注册状态
	built := make(map[string]Entry, len(doc.Operations))
	for name, settings := range doc.Operations {
		if name == "" {
			return ErrEmptyName
		}
		policy, err := buildPolicy(settings)
		if err != nil {
			return fmt.Errorf("operation %q: %w", name, err)
		}
		breaker, err := r.buildBreaker(name, settings.Breaker)
		if err != nil {
			return fmt.Errorf("operation %q: %w", name, err)
		}
		built[name] = r.buildEntry(name, policy, breaker)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name := range built {
		if _, exists := r.entries[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateOperation, name)
		}
	}
	for name, entry := range built {
		r.entries[name] = entry
	}
	return nil
}

// parseConfig 解析配置字节
func parseConfig(data []byte, format Format) (*configDocument, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	var doc configDocument
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return &doc, nil
}

// buildPolicy 由预设和覆盖项组装策略配置
func buildPolicy(settings OperationSettings) (*xretry.Policy, error) {
	var cfg xretry.PolicyConfig
	switch settings.Preset {
	case PresetStorage:
		cfg = presetConfig(xretry.StoragePolicy())
	case PresetAPI:
		cfg = presetConfig(xretry.APICallPolicy())
	case "":
		// 无预设时全部字段来自配置
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, settings.Preset)
	}

	if s := settings.Retry; s != nil {
		if s.MaxAttempts != nil {
			cfg.MaxAttempts = *s.MaxAttempts
		}
		if s.BaseDelay != nil {
			cfg.BaseDelay = *s.BaseDelay
		}
		if s.MaxDelay != nil {
			cfg.MaxDelay = *s.MaxDelay
		}
		if s.Multiplier != nil {
			cfg.Multiplier = *s.Multiplier
		}
		if s.Jitter != nil {
			cfg.Jitter = *s.Jitter
		}
		if s.RespectSuggestedWait != nil {
			cfg.RespectSuggestedWait = *s.RespectSuggestedWait
		}
		if s.Classifier != nil {
			classifier, err := lookupClassifier(*s.Classifier)
			if err != nil {
				return nil, err
			}
			cfg.Classifier = classifier
		}
	}

	return xretry.NewPolicy(cfg)
}

// presetConfig 把预设策略展开为可覆盖的配置
func presetConfig(p *xretry.Policy) xretry.PolicyConfig {
	return xretry.PolicyConfig{
		MaxAttempts:          p.MaxAttempts(),
		BaseDelay:            p.BaseDelay(),
		MaxDelay:             p.MaxDelay(),
		Multiplier:           p.Multiplier(),
		Jitter:               p.Jitter(),
		Classifier:           p.Classifier(),
		RespectSuggestedWait: p.RespectSuggestedWait(),
	}
}

// lookupClassifier 按名字解析分类器
func lookupClassifier(name string) (xclassify.Classifier, error) {
	switch name {
	case ClassifierStorage:
		return xclassify.NewStorageClassifier(), nil
	case ClassifierHTTP:
		return xclassify.NewHTTPClassifier(), nil
	case ClassifierNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassifier, name)
	}
}

// buildBreaker 由覆盖项组装熔断器，状态转换接到注册表 Sink
func (r *Registry) buildBreaker(name string, settings *BreakerSettings) (*xbreaker.Breaker, error) {
	cfg := xbreaker.DefaultConfig()
	if settings != nil {
		if settings.FailureThreshold != nil {
			cfg.FailureThreshold = *settings.FailureThreshold
		}
		if settings.RecoveryTimeout != nil {
			cfg.RecoveryTimeout = *settings.RecoveryTimeout
		}
		if settings.SuccessThreshold != nil {
			cfg.SuccessThreshold = *settings.SuccessThreshold
		}
	}

	var opts []xbreaker.Option
	if r.sink != nil {
		opts = append(opts, xbreaker.WithOnStateChange(r.ObserveTransition))
	}
	return xbreaker.NewBreaker(name, cfg, opts...)
}
