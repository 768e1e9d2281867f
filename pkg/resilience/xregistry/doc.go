// Package xregistry 提供按操作名组织的弹性策略注册表。
//
// 每个被保护的逻辑操作在注册表中占一个条目，绑定一份重试策略和
// 一个共享的熔断器。调用方通过操作名发起调用，同名操作的所有
// 并发调用共享同一个熔断器实例：
//
//	reg := xregistry.NewRegistry(xregistry.WithSink(sink))
//	_ = reg.Register("upload", xretry.StoragePolicy(), breaker)
//
//	out, err := reg.Do(ctx, "upload", func(ctx context.Context) error {
//		return client.Upload(ctx, obj)
//	})
//
// 注册表也支持声明式配置：LoadConfig 从 YAML/JSON 字节解析一张
// 操作表，经由与手工注册完全相同的构造器校验后批量注册。配置
// 只接受字节，不读文件、不读环境变量，加载来源由调用方决定。
//
// 通过 LoadConfig 创建的熔断器自动把状态转换转发到注册表的
// Sink；手工注册的熔断器需调用方自行用 xbreaker.WithOnStateChange
// 接上 Registry.ObserveTransition。
package xregistry
