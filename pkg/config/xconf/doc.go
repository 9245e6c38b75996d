// Package xconf 提供配置文件加载、反序列化和热重载，基于 koanf 实现。
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # 默认值
//
// WithDefaults 注入的键值先于文件加载，文件中的同名键覆盖默认值。
// Reload 时重新应用默认值，删除文件中的键会回退到默认值。
//
//	cfg, err := xconf.New("duallog.yaml", xconf.WithDefaults(map[string]any{
//	    "rotation.interval": "1h",
//	}))
//
// # 并发安全
//
// Reload 串行执行，解析成功后原子替换 koanf 实例；解析失败保留旧配置。
// Client() 返回当时的快照，Reload 后旧指针仍可用但数据过期。
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件所在目录，带防抖，兼容编辑器的原子写入。
// Watcher.Run 阻塞到 ctx 结束，可直接作为 xrun 服务运行。
package xconf
