package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Node 把一组 Filter 接入 Pipeline 的过滤阶段。
// 多个过滤器是 AND 语义：任何一个说"过滤"即移除。
type Node struct {
	Filters []Filter
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	recs []core.Recommendation,
) ([]core.Recommendation, error) {
	if len(n.Filters) == 0 {
		return recs, nil
	}

	out := make([]core.Recommendation, 0, len(recs))
	for _, rec := range recs {
		drop := false
		for _, f := range n.Filters {
			shouldFilter, err := f.ShouldFilter(ctx, rctx, rec)
			if err != nil {
				return nil, err
			}
			if shouldFilter {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, rec)
		}
	}
	return out, nil
}
