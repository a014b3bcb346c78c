// Package shoprec 是一个协同过滤商品推荐引擎（Shop Recommender）。
//
// 设计要点：
// - Store-injected: 购买历史与隐式反馈都是注入的窄接口，引擎自身无可变业务状态
// - Pipeline-composable: 召回组件可直接调用，也可作为 Node 串进 Recall → Filter → ReRank 链
// - Degrade-first: 反馈存储与相似度缓存都是可选依赖，缺失时降级而不是报错
package shoprec

import "github.com/rushteam/shoprec/pipeline"

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindReRank = pipeline.KindReRank
)
