package xclassify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// ErrorCoder 错误码接口
//
// 对象存储 SDK 的错误通常携带服务端错误码（如 "SlowDown"、"AccessDenied"）。
// 错误类型实现此接口即可向 StorageClassifier 暴露错误码。
type ErrorCoder interface {
	ErrorCode() string
}

// StorageError 对象存储错误载体
//
// 供调用方把存储客户端的错误信号包装后交给分类器。
// Code 为服务端错误码，Err 为底层错误（可为 nil）。
type StorageError struct {
	Code string
	Err  error
}

// NewStorageError 创建对象存储错误
func NewStorageError(code string, err error) *StorageError {
	return &StorageError{Code: code, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage error %s", e.Code)
	}
	return fmt.Sprintf("storage error %s: %v", e.Code, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrorCode 实现 ErrorCoder 接口
func (e *StorageError) ErrorCode() string {
	return e.Code
}

// 可重试的存储错误码：限流、容量超限、内部错误、服务不可用
var retryableStorageCodes = map[string]struct{}{
	"Throttling":                             {},
	"ThrottlingException":                    {},
	"RequestThrottled":                       {},
	"TooManyRequestsException":               {},
	"SlowDown":                               {},
	"ProvisionedThroughputExceededException": {},
	"RequestLimitExceeded":                   {},
	"InternalError":                          {},
	"InternalServerError":                    {},
	"ServiceUnavailable":                     {},
	"ServiceUnavailableException":            {},
	"RequestTimeout":                         {},
}

// 不可重试的存储错误码：权限、资源缺失、签名/认证失败
var permanentStorageCodes = map[string]struct{}{
	"AccessDenied":              {},
	"AccessDeniedException":     {},
	"AccountProblem":            {},
	"InvalidAccessKeyId":        {},
	"SignatureDoesNotMatch":     {},
	"ExpiredToken":              {},
	"NoSuchBucket":              {},
	"NoSuchKey":                 {},
	"NotFound":                  {},
	"ResourceNotFoundException": {},
	"ValidationException":       {},
	"MalformedXML":              {},
	"InvalidRequest":            {},
}

// StorageClassifier 对象存储操作分类器
//
// 判定规则（按优先级）：
//  1. RetryableError 标记（NewPermanentError / NewTemporaryError）
//  2. 错误码表：限流 / 容量超限 / 内部错误 / 服务不可用 → 可重试；
//     权限 / 资源缺失 / 签名认证 → 不可重试
//  3. 连接与超时故障（net.Error 超时、连接被拒/重置、context 超时）→ 可重试
//  4. 其余一律不可重试
//
// 设计决策: 未识别的错误默认不可重试。对未知情况静默无限重试比一次
// 失败暴露问题更危险，调用方可用 NewTemporaryError 显式放行。
type StorageClassifier struct{}

// NewStorageClassifier 创建对象存储分类器
func NewStorageClassifier() *StorageClassifier {
	return &StorageClassifier{}
}

// Retryable 判断存储错误是否值得重试
func (c *StorageClassifier) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if retryable, ok := marked(err); ok {
		return retryable
	}

	var coder ErrorCoder
	if errors.As(err, &coder) {
		code := coder.ErrorCode()
		if _, ok := retryableStorageCodes[code]; ok {
			return true
		}
		if _, ok := permanentStorageCodes[code]; ok {
			return false
		}
	}

	return isConnectionFailure(err)
}

// SuggestedWait 存储错误不携带等待提示
func (c *StorageClassifier) SuggestedWait(err error) (time.Duration, bool) {
	var sw SuggestedWaiter
	if errors.As(err, &sw) {
		return sw.SuggestedWait()
	}
	return 0, false
}

// isConnectionFailure 判断是否为连接/超时类瞬时故障
//
// context.Canceled 不算：取消是调用方的主动决定，重试只会违背它。
func isConnectionFailure(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

var _ Classifier = (*StorageClassifier)(nil)
