package core

import "time"

// UserID 是用户的不透明标识（通常是账号邮箱）。
// 只依赖相等比较；字典序仅用于同分时的确定性 tie-break。
type UserID string

// ProductID 是商品的整数标识。
type ProductID int64

// RecentViewLimit 是单个用户最近浏览日志的最大长度。
// 超出时最旧的记录先被淘汰，由各 FeedbackStore 实现保证。
const RecentViewLimit = 100

// Recommendation 是推荐结果的统一承载结构：(商品, 分数, 来源)。
//
// Score 的语义由产出方决定：
//   - user_cf / item_cf：相似度累加值
//   - copurchase：归一化共现频次（最高分恒为 1.0）
//
// 不同产出方的分数不可跨来源比较。
type Recommendation struct {
	Product ProductID `json:"product"`
	Score   float64   `json:"score"`
	Source  string    `json:"source,omitempty"` // recall.user_cf / recall.item_cf / recall.copurchase / recall.trending
}

// SimilarUser 是用户相似度查询的结果项。
type SimilarUser struct {
	User  UserID  `json:"user"`
	Score float64 `json:"score"`
}

// RecentView 是最近浏览日志中的一条记录。
type RecentView struct {
	Product  ProductID `json:"product"`
	ViewedAt time.Time `json:"viewed_at"`
}

// TrendingEntry 是热门榜单中的一项：商品与全站累计浏览次数。
type TrendingEntry struct {
	Product ProductID `json:"product"`
	Views   int64     `json:"views"`
}

// Statistics 是只读的全局统计快照。
type Statistics struct {
	// TotalUsers 全局已知用户数
	TotalUsers int64 `json:"total_users"`

	// TotalItems 至少被一个用户购买过的商品数
	TotalItems int64 `json:"total_items"`

	// TotalPurchases 所有用户购买集大小之和
	TotalPurchases int64 `json:"total_purchases"`

	// TotalCoPurchasePatterns 计数非零的有序共购键 (A,B) 个数
	TotalCoPurchasePatterns int64 `json:"total_copurchase_patterns"`
}
