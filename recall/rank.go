package recall

import (
	"sort"

	"github.com/rushteam/shoprec/core"
)

// defaultTopK 是未显式指定 limit 时的返回条数。
const defaultTopK = 10

// sortRecommendations 按分数降序排序；同分时按 ProductID 升序，
// 保证结果可复现（不依赖 map 遍历顺序）。
func sortRecommendations(recs []core.Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Product < recs[j].Product
	})
}

// truncate 截断到前 limit 条；limit <= 0 时使用 defaultTopK。
func truncate(recs []core.Recommendation, limit int) []core.Recommendation {
	if limit <= 0 {
		limit = defaultTopK
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// collect 把累加分数表转为带来源标记的推荐列表。
func collect(scores map[core.ProductID]float64, source string) []core.Recommendation {
	out := make([]core.Recommendation, 0, len(scores))
	for product, score := range scores {
		out = append(out, core.Recommendation{
			Product: product,
			Score:   score,
			Source:  source,
		})
	}
	return out
}
