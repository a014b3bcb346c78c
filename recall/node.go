package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Node 包装器：让各协同过滤组件同时实现 Source 和 pipeline.Node，
// 可以直接串进 Pipeline（召回阶段忽略上游输入，产出自己的候选）。

// UserCFNode 是 UserCF 的 Pipeline 包装。
type UserCFNode struct {
	CF *UserCF

	// TopK 召回条数，<= 0 时用默认值
	TopK int
}

func (n *UserCFNode) Name() string        { return SourceUserCF }
func (n *UserCFNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *UserCFNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Recommendation,
) ([]core.Recommendation, error) {
	return n.Recall(ctx, rctx)
}

func (n *UserCFNode) Recall(ctx context.Context, rctx *core.RecommendContext) ([]core.Recommendation, error) {
	if n.CF == nil || rctx == nil || rctx.User == "" {
		return nil, nil
	}
	return n.CF.Recommend(ctx, rctx.User, n.TopK)
}

// ItemCFNode 是 ItemCF 的 Pipeline 包装。
type ItemCFNode struct {
	CF *ItemCF

	// TopK 召回条数，<= 0 时用默认值
	TopK int
}

func (n *ItemCFNode) Name() string        { return SourceItemCF }
func (n *ItemCFNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *ItemCFNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Recommendation,
) ([]core.Recommendation, error) {
	return n.Recall(ctx, rctx)
}

func (n *ItemCFNode) Recall(ctx context.Context, rctx *core.RecommendContext) ([]core.Recommendation, error) {
	if n.CF == nil || rctx == nil || rctx.User == "" {
		return nil, nil
	}
	return n.CF.Recommend(ctx, rctx.User, n.TopK)
}

// CoPurchaseNode 是 CoPurchase 的 Pipeline 包装。
//
// 种子商品优先取 rctx.Basket（如购物车内容）；Basket 为空时
// 退而使用用户最近浏览日志里的商品。
type CoPurchaseNode struct {
	Analyzer *CoPurchase

	// TopK 召回条数，<= 0 时用默认值
	TopK int

	// SeedViews Basket 为空时从最近浏览取的种子条数，<= 0 时取 10
	SeedViews int
}

func (n *CoPurchaseNode) Name() string        { return SourceCoPurchase }
func (n *CoPurchaseNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *CoPurchaseNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Recommendation,
) ([]core.Recommendation, error) {
	return n.Recall(ctx, rctx)
}

func (n *CoPurchaseNode) Recall(ctx context.Context, rctx *core.RecommendContext) ([]core.Recommendation, error) {
	if n.Analyzer == nil || rctx == nil {
		return nil, nil
	}

	seeds := rctx.Basket
	if len(seeds) == 0 && rctx.User != "" {
		seedViews := n.SeedViews
		if seedViews <= 0 {
			seedViews = 10
		}
		views, err := n.Analyzer.RecentViews(ctx, rctx.User, seedViews)
		if err != nil {
			return nil, err
		}
		seen := make(map[core.ProductID]struct{}, len(views))
		for _, v := range views {
			if _, ok := seen[v.Product]; ok {
				continue
			}
			seen[v.Product] = struct{}{}
			seeds = append(seeds, v.Product)
		}
	}

	return n.Analyzer.Recommend(ctx, seeds, n.TopK)
}

// TrendingNode 是 Trending 的 Pipeline 包装。
// 浏览次数直接作为分数透出（与相似度分数不可跨来源比较）。
type TrendingNode struct {
	Tracker *Trending

	// TopK 召回条数，<= 0 时用默认值
	TopK int
}

func (n *TrendingNode) Name() string        { return SourceTrending }
func (n *TrendingNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *TrendingNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Recommendation,
) ([]core.Recommendation, error) {
	return n.Recall(ctx, rctx)
}

func (n *TrendingNode) Recall(ctx context.Context, _ *core.RecommendContext) ([]core.Recommendation, error) {
	if n.Tracker == nil {
		return nil, nil
	}
	entries, err := n.Tracker.TrendingProducts(ctx, n.TopK)
	if err != nil {
		return nil, err
	}

	out := make([]core.Recommendation, 0, len(entries))
	for _, e := range entries {
		out = append(out, core.Recommendation{
			Product: e.Product,
			Score:   float64(e.Views),
			Source:  SourceTrending,
		})
	}
	return out, nil
}
