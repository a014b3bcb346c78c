package core

import "context"

// KVStore 是通用 KV 存储的领域接口。
//
// 用于购买历史的 KV 适配（store.HistoryKV 从这里读 JSON 集合），
// 也可承载其他小体量的序列化数据。
//
// 实现：
//   - store.Memory
//   - store.Redis
type KVStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值。key 不存在返回 ErrStoreNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 为可选的过期秒数
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}
