package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
)

// SourceTrending 是热门召回的来源标记。
const SourceTrending = "recall.trending"

// Trending 把所有已知用户的浏览计数聚合成热门榜单。
//
// 这是一次 O(用户数 × 人均浏览商品数) 的全扫描，对中等数据量
// 可接受；更大规模应物化聚合计数，对外行为保持不变。
// FeedbackStore 为 nil 时降级为空榜单。
type Trending struct {
	feedback core.FeedbackStore
}

// NewTrending 创建热门榜单聚合器。feedback 可以为 nil。
func NewTrending(feedback core.FeedbackStore) *Trending {
	return &Trending{feedback: feedback}
}

// TrendingProducts 返回按全站累计浏览次数降序的商品榜单，
// 同次数按 ProductID 升序，截断到 limit。
func (t *Trending) TrendingProducts(ctx context.Context, limit int) ([]core.TrendingEntry, error) {
	if t.feedback == nil {
		return []core.TrendingEntry{}, nil
	}

	users, err := t.feedback.GetAllKnownUsers(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[core.ProductID]int64)
	for _, user := range users {
		counts, err := t.feedback.GetViewCounts(ctx, user)
		if err != nil {
			return nil, err
		}
		for product, n := range counts {
			totals[product] += n
		}
	}

	entries := make([]core.TrendingEntry, 0, len(totals))
	for product, views := range totals {
		entries = append(entries, core.TrendingEntry{Product: product, Views: views})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Views != entries[j].Views {
			return entries[i].Views > entries[j].Views
		}
		return entries[i].Product < entries[j].Product
	})

	if limit <= 0 {
		limit = defaultTopK
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
