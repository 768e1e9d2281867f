package xclassify

import "errors"

// RetryableError 可重试错误标记接口
// 实现此接口的错误会绕过分类器的规则表，直接按 Retryable() 的返回值判定
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 永久性错误（不应重试）
type PermanentError struct {
	Err error
}

// NewPermanentError 创建永久性错误
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Retryable() bool {
	return false
}

// TemporaryError 临时性错误（应该重试）
type TemporaryError struct {
	Err error
}

// NewTemporaryError 创建临时性错误
func NewTemporaryError(err error) *TemporaryError {
	return &TemporaryError{Err: err}
}

func (e *TemporaryError) Error() string {
	if e.Err == nil {
		return "temporary error"
	}
	return e.Err.Error()
}

func (e *TemporaryError) Unwrap() error {
	return e.Err
}

func (e *TemporaryError) Retryable() bool {
	return true
}

// marked 检查错误链上是否有显式的可重试标记
// 第二个返回值表示是否找到标记；未标记的错误交给分类器规则表判定
func marked(err error) (retryable, ok bool) {
	if err == nil {
		return false, false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable(), true
	}
	return false, false
}
