package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Purchased 是已购过滤节点：移除用户购买集中已有的商品。
//
// 各召回组件自身已保证不推荐已购商品；此节点用于接入
// 外部召回源（如 Fanout 混入的热门榜）时的兜底。
//
// 直接实现 pipeline.Node 而不是 Filter：购买集在一次 Process
// 中只读一次，避免逐条候选重复查存储。
type Purchased struct {
	History core.PurchaseHistoryStore
}

func (n *Purchased) Name() string        { return "filter.purchased" }
func (n *Purchased) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Purchased) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []core.Recommendation,
) ([]core.Recommendation, error) {
	if n.History == nil || rctx == nil || rctx.User == "" || len(recs) == 0 {
		return recs, nil
	}

	owned, err := n.History.GetProductsForUser(ctx, rctx.User)
	if err != nil {
		return nil, err
	}

	out := make([]core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, ok := owned[rec.Product]; ok {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
