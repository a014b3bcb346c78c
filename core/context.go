package core

// RecommendContext 承载一次推荐请求的用户与场景信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	User  UserID // 请求的目标用户
	Scene string // 业务场景：homepage / detail / cart ...

	// Basket 当前请求携带的商品集合（如购物车内容），
	// 共购召回可直接用它作为种子；为空时召回源自行选择种子来源。
	Basket []ProductID

	// Params 请求级上下文参数（设备、AB 分组等动态属性）
	Params map[string]any
}
