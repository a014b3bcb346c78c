package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// TopN 是截断节点，在过滤后保留前 N 条推荐。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.UserCFNode{CF: cf, TopK: 50},
//	        &filter.Node{Filters: []filter.Filter{rule}},
//	        &rerank.TopN{N: 20},
//	    },
//	}
type TopN struct {
	// N 要保留的条数。N <= 0 时不截断。
	N int

	// Sort 为 true 时先按分数降序（同分按 ProductID 升序）重排再截断；
	// 用于 Fanout union 合并后顺序混杂的场景。
	Sort bool
}

func (n *TopN) Name() string        { return "rerank.topn" }
func (n *TopN) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopN) Process(
	_ context.Context,
	_ *core.RecommendContext,
	recs []core.Recommendation,
) ([]core.Recommendation, error) {
	if n.Sort {
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Score != recs[j].Score {
				return recs[i].Score > recs[j].Score
			}
			return recs[i].Product < recs[j].Product
		})
	}

	if n.N <= 0 || len(recs) <= n.N {
		return recs, nil
	}
	return recs[:n.N], nil
}
