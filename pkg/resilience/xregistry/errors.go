package xregistry

import "errors"

// 注册与查找错误
var (
	// ErrEmptyName 操作名为空
	ErrEmptyName = errors.New("xregistry: operation name cannot be empty")

	// ErrNilPolicy 注册时未提供策略
	ErrNilPolicy = errors.New("xregistry: policy cannot be nil")

	// ErrDuplicateOperation 操作名已注册
	ErrDuplicateOperation = errors.New("xregistry: operation already registered")

	// ErrUnknownOperation 操作名未注册
	ErrUnknownOperation = errors.New("xregistry: unknown operation")
)

// 配置加载错误
var (
	// ErrUnsupportedFormat 不支持的配置格式
	ErrUnsupportedFormat = errors.New("xregistry: unsupported config format")

	// ErrParseFailed 配置解析失败
	ErrParseFailed = errors.New("xregistry: failed to parse config")

	// ErrUnmarshalFailed 配置反序列化失败
	ErrUnmarshalFailed = errors.New("xregistry: failed to unmarshal config")

	// ErrUnknownPreset 配置引用了不存在的预设
	ErrUnknownPreset = errors.New("xregistry: unknown preset")

	// ErrUnknownClassifier 配置引用了不存在的分类器
	ErrUnknownClassifier = errors.New("xregistry: unknown classifier")
)
