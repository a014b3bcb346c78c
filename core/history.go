package core

import "context"

// PurchaseHistoryStore 是订单侧购买历史的领域接口（必选协作方）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 购买集/购买者集是每次调用现读现算的派生数据，引擎自身不做隐式缓存
//   - 任何连接或查询故障必须返回 StoreError，绝不能用空集合顶替
//
// 实现：
//   - store.Memory（测试/开发/原型）
//   - store.HistoryKV（从 KV 存储读 JSON 集合，适合无法直连订单库的部署）
//   - 订单数据库的适配器（MySQL、PostgreSQL 等）也可以实现此接口
type PurchaseHistoryStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// GetProductsForUser 返回用户的购买集。
	// 只统计已接受/已发货订单，草稿与取消订单不计入。
	GetProductsForUser(ctx context.Context, user UserID) (map[ProductID]struct{}, error)

	// GetPurchasersForProduct 返回商品的购买者集（购买集的逆关系）。
	GetPurchasersForProduct(ctx context.Context, product ProductID) (map[UserID]struct{}, error)

	// GetAllUserIDs 返回全部已知用户 ID（含草稿订单用户），顺序不保证。
	GetAllUserIDs(ctx context.Context) ([]UserID, error)
}
