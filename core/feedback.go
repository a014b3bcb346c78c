package core

import (
	"context"
	"time"
)

// FeedbackStore 是隐式反馈数据的领域接口（可选协作方）。
//
// 存放共购计数、浏览计数、最近浏览日志与全局用户集。
// 引擎在该依赖缺失（nil）时必须把浏览/共购相关能力降级为 no-op，
// 而不是报错。
//
// 一致性说明：RecordPurchase 这类复合写入由多次逻辑增量组成，
// 接口不承诺跨调用的事务性；中途失败可能留下不一致的计数，
// 引擎不做重试也不做回滚，这是有意为之的弱一致点。
type FeedbackStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// RecordCoPurchasePair 对称地把 (a,b) 与 (b,a) 的共购计数各 +1。
	// 两个方向的增量属于同一个逻辑操作。
	RecordCoPurchasePair(ctx context.Context, a, b ProductID) error

	// AddPurchase 把商品记入用户购买集、用户记入商品购买者集，
	// 并把用户加入全局已知用户集。
	AddPurchase(ctx context.Context, user UserID, product ProductID) error

	// RecordView 浏览计数 +1，并把 (product, at) 追加进最近浏览日志。
	// 日志长度超过 RecentViewLimit 时最旧记录先被淘汰。
	RecordView(ctx context.Context, user UserID, product ProductID, at time.Time) error

	// GetCoPurchaseCount 返回 (a,b) 的共购计数。不存在返回 0。
	GetCoPurchaseCount(ctx context.Context, a, b ProductID) (int64, error)

	// GetCoPurchasedWith 返回与 product 共现过的全部商品及计数。
	GetCoPurchasedWith(ctx context.Context, product ProductID) (map[ProductID]int64, error)

	// GetViewCounts 返回用户的全部浏览计数。
	GetViewCounts(ctx context.Context, user UserID) (map[ProductID]int64, error)

	// GetRecentViews 返回用户最近浏览日志，新的在前。
	// limit <= 0 表示返回全部（至多 RecentViewLimit 条）。
	GetRecentViews(ctx context.Context, user UserID, limit int) ([]RecentView, error)

	// GetAllKnownUsers 返回全局已知用户集。
	GetAllKnownUsers(ctx context.Context) ([]UserID, error)

	// GetTrackedProducts 返回至少有一个购买者的商品集合。
	GetTrackedProducts(ctx context.Context) ([]ProductID, error)

	// CountPurchases 返回所有用户购买集大小之和。
	CountPurchases(ctx context.Context) (int64, error)

	// CountCoPurchasePatterns 返回计数非零的有序共购键 (A,B) 个数。
	CountCoPurchasePatterns(ctx context.Context) (int64, error)
}

// SimilarityCache 是物品相似度结果的可选缓存（cache-aside）。
//
// 缓存纯属优化：任何读写故障都应被调用方吞掉并退化为直接重算，
// 绝不能让缓存故障导致请求失败。
type SimilarityCache interface {
	// GetSimilarItems 读取缓存的相似物品列表。
	// 未命中返回 ErrStoreNotFound。
	GetSimilarItems(ctx context.Context, product ProductID) ([]Recommendation, error)

	// SetSimilarItems 写入相似物品列表，ttl 为过期秒数。
	SetSimilarItems(ctx context.Context, product ProductID, recs []Recommendation, ttl int) error
}
