// Package config 提供配置驱动的 Pipeline 组装：
// 把 YAML/JSON 里的 node 列表翻译成注入好存储依赖的 Node 实例。
package config

import (
	"fmt"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/conv"
	"github.com/rushteam/shoprec/recall"
	"github.com/rushteam/shoprec/rerank"
)

// builtinTypes 是 DefaultFactory 内置的 Node 类型。
var builtinTypes = []string{
	"recall.user_cf",
	"recall.item_cf",
	"recall.copurchase",
	"recall.trending",
	"filter.purchased",
	"filter.blacklist",
	"filter.rule",
	"rerank.topn",
}

// Deps 是构建内置 Node 所需的外部依赖。
// 存储不在配置文件里描述（没有可序列化的表示），由调用方注入。
type Deps struct {
	Config   core.Config
	History  core.PurchaseHistoryStore
	Feedback core.FeedbackStore // 可为 nil
	Cache    core.SimilarityCache
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂，并合并 Register 注册的自定义类型。
//
// 配置示例：
//
//	pipeline:
//	  name: homepage
//	  nodes:
//	    - type: recall.user_cf
//	      config: {topk: 50}
//	    - type: filter.rule
//	      config: {expr: "rec.score > 0.1"}
//	    - type: rerank.topn
//	      config: {n: 20}
func DefaultFactory(deps Deps) (*pipeline.NodeFactory, error) {
	if deps.History == nil {
		return nil, core.NewConfigError("purchase history store is required")
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, err
	}

	userCF, err := recall.NewUserCF(deps.History, deps.Config)
	if err != nil {
		return nil, err
	}
	itemCF, err := recall.NewItemCF(deps.History, deps.Cache, deps.Config)
	if err != nil {
		return nil, err
	}
	copurchase := recall.NewCoPurchase(deps.Feedback)
	trending := recall.NewTrending(deps.Feedback)

	f := pipeline.NewNodeFactory()

	f.Register("recall.user_cf", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.UserCFNode{CF: userCF, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	})
	f.Register("recall.item_cf", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.ItemCFNode{CF: itemCF, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	})
	f.Register("recall.copurchase", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.CoPurchaseNode{
			Analyzer:  copurchase,
			TopK:      conv.ConfigGetInt(cfg, "topk", 0),
			SeedViews: conv.ConfigGetInt(cfg, "seed_views", 0),
		}, nil
	})
	f.Register("recall.trending", func(cfg map[string]any) (pipeline.Node, error) {
		return &recall.TrendingNode{Tracker: trending, TopK: conv.ConfigGetInt(cfg, "topk", 0)}, nil
	})

	f.Register("filter.purchased", func(cfg map[string]any) (pipeline.Node, error) {
		return &filter.Purchased{History: deps.History}, nil
	})
	f.Register("filter.blacklist", func(cfg map[string]any) (pipeline.Node, error) {
		ids := conv.SliceAnyToInt64(cfg["products"])
		products := make([]core.ProductID, 0, len(ids))
		for _, id := range ids {
			products = append(products, core.ProductID(id))
		}
		return &filter.Node{Filters: []filter.Filter{filter.NewBlacklist(products...)}}, nil
	})
	f.Register("filter.rule", func(cfg map[string]any) (pipeline.Node, error) {
		expr := conv.ConfigGet[string](cfg, "expr", "")
		if expr == "" {
			return nil, fmt.Errorf("filter.rule: expr is required")
		}
		rule, err := filter.NewRule(expr)
		if err != nil {
			return nil, err
		}
		return &filter.Node{Filters: []filter.Filter{rule}}, nil
	})

	f.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{
			N:    conv.ConfigGetInt(cfg, "n", 0),
			Sort: conv.ConfigGet[bool](cfg, "sort", false),
		}, nil
	})

	registerCustom(f)
	return f, nil
}
