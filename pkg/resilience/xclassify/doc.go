// Package xclassify 提供错误分类能力，判断一次调用失败是否值得重试。
//
// # 设计理念
//
// xclassify 是纯函数式的叶子包：分类器只检查错误值本身，不做任何 I/O，
// 也不依赖具体的传输层实现。调用方（对象存储客户端、HTTP 客户端）
// 通过 StorageError / HTTPError 等载体类型把错误信号交给分类器。
//
// # 分类器
//
// 内置两种分类器：
//   - StorageClassifier：对象存储操作分类器。限流、容量超限、内部错误、
//     服务不可用以及连接/超时类故障视为可重试；权限、资源缺失、签名/认证
//     类故障视为不可重试。未识别的错误一律不可重试（安全兜底）。
//   - HTTPClassifier：HTTP 调用分类器。连接错误、超时和 5xx 视为可重试；
//     429 可重试并携带 Retry-After 建议等待；其余 4xx 不可重试。
//
// # 错误标记
//
//   - NewPermanentError(err)：显式标记为永久性错误（优先于分类规则）
//   - NewTemporaryError(err)：显式标记为临时性错误（优先于分类规则）
//
// 两种分类器都会先检查 RetryableError 标记，再套用各自的规则表。
package xclassify
