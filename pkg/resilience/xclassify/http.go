package xclassify

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// StatusCoder HTTP 状态码接口
//
// 错误类型实现此接口即可向 HTTPClassifier 暴露状态码。
// 约定：状态码 0 表示传输层错误（连接失败、请求未到达服务端）。
type StatusCoder interface {
	HTTPStatusCode() int
}

// HTTPError HTTP 调用错误载体
//
// 供调用方把 HTTP 客户端的错误信号包装后交给分类器。
// StatusCode 为响应状态码（传输层错误用 0），RetryAfter 为服务端
// 通过 Retry-After 头给出的建议等待时间（0 表示没有）。
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

// NewHTTPError 创建 HTTP 错误
//
// header 可为 nil。429/503 响应中的 Retry-After 头会被解析为建议等待时间，
// 支持 delta-seconds 和 HTTP-date 两种格式（RFC 9110 §10.2.3）。
func NewHTTPError(statusCode int, header http.Header, err error) *HTTPError {
	e := &HTTPError{
		StatusCode: statusCode,
		Err:        err,
	}
	if header != nil {
		e.RetryAfter = parseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return e
}

func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("http transport error: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 实现 StatusCoder 接口
func (e *HTTPError) HTTPStatusCode() int {
	return e.StatusCode
}

// SuggestedWait 实现 SuggestedWaiter 接口
func (e *HTTPError) SuggestedWait() (time.Duration, bool) {
	if e.RetryAfter > 0 {
		return e.RetryAfter, true
	}
	return 0, false
}

// parseRetryAfter 解析 Retry-After 头
//
// 返回 0 表示无法解析或值已过期。HTTP-date 格式相对 now 换算为时长。
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// HTTPClassifier HTTP 调用分类器
//
// 判定规则（按优先级）：
//  1. RetryableError 标记（NewPermanentError / NewTemporaryError）
//  2. 状态码：5xx 和 429 → 可重试；其余 4xx → 不可重试
//  3. 传输层错误（状态码 0 或连接/超时类故障）→ 可重试
//
// 429 的 Retry-After 提示通过 SuggestedWait 暴露，是否采纳由重试
// 策略的 RespectSuggestedWait 决定。
type HTTPClassifier struct{}

// NewHTTPClassifier 创建 HTTP 分类器
func NewHTTPClassifier() *HTTPClassifier {
	return &HTTPClassifier{}
}

// Retryable 判断 HTTP 错误是否值得重试
func (c *HTTPClassifier) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if retryable, ok := marked(err); ok {
		return retryable
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		status := sc.HTTPStatusCode()
		switch {
		case status == 0:
			return true
		case status >= 500:
			return true
		case status == http.StatusTooManyRequests:
			return true
		case status >= 400:
			return false
		}
	}

	return isConnectionFailure(err)
}

// SuggestedWait 提取 Retry-After 建议等待时间
func (c *HTTPClassifier) SuggestedWait(err error) (time.Duration, bool) {
	var sw SuggestedWaiter
	if errors.As(err, &sw) {
		return sw.SuggestedWait()
	}
	return 0, false
}

var _ Classifier = (*HTTPClassifier)(nil)
var _ SuggestedWaiter = (*HTTPError)(nil)
var _ StatusCoder = (*HTTPError)(nil)
var _ ErrorCoder = (*StorageError)(nil)
