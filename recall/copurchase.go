package recall

import (
	"context"
	"sort"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/setsim"
)

// SourceCoPurchase 是共购召回的来源标记。
const SourceCoPurchase = "recall.copurchase"

// CoPurchase 记录并分析商品在同一笔订单内的共现，
// 以及用户的隐式浏览信号（浏览计数 + 最近浏览日志）。
//
// FeedbackStore 是可选依赖：为 nil 时所有写入降级为 no-op、
// 所有查询降级为空结果，不报错。
//
// 一致性说明：RecordPurchase 由多次逻辑增量组成（每个商品对一次、
// 每个商品一次集合写入）。存储不提供事务批量时，中途失败会留下
// 部分写入的计数；这里不重试也不回滚，错误原样交给调用方。
type CoPurchase struct {
	feedback core.FeedbackStore

	now func() time.Time
}

// NewCoPurchase 创建共购分析器。feedback 可以为 nil。
func NewCoPurchase(feedback core.FeedbackStore) *CoPurchase {
	return &CoPurchase{
		feedback: feedback,
		now:      time.Now,
	}
}

// Enabled 返回隐式反馈能力是否可用。
func (a *CoPurchase) Enabled() bool {
	return a.feedback != nil
}

// RecordPurchase 记录一次购买事件。
//
// 对 products 去重后的每个无序对 (A,B)，共购计数对称 +1；
// 每个商品写入用户购买集、用户写入商品购买者集，
// 用户加入全局已知用户集。
//
// products 为空是 no-op（不报错）。at 为零值时取当前时间。
func (a *CoPurchase) RecordPurchase(ctx context.Context, user core.UserID, products []core.ProductID, at time.Time) error {
	if a.feedback == nil || len(products) == 0 {
		return nil
	}
	if at.IsZero() {
		at = a.now()
	}

	// 去重并排序，保证写入顺序可复现
	distinct := make([]core.ProductID, 0, len(products))
	for p := range setsim.FromSlice(products) {
		distinct = append(distinct, p)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			if err := a.feedback.RecordCoPurchasePair(ctx, distinct[i], distinct[j]); err != nil {
				return err
			}
		}
	}

	for _, product := range distinct {
		if err := a.feedback.AddPurchase(ctx, user, product); err != nil {
			return err
		}
	}
	return nil
}

// RecordView 浏览计数 +1 并追加最近浏览日志。
// 日志长度上限 core.RecentViewLimit，最旧的先被淘汰（由存储实现保证）。
func (a *CoPurchase) RecordView(ctx context.Context, user core.UserID, product core.ProductID) error {
	if a.feedback == nil {
		return nil
	}
	return a.feedback.RecordView(ctx, user, product, a.now())
}

// RecentViews 返回用户最近浏览日志，新的在前。
func (a *CoPurchase) RecentViews(ctx context.Context, user core.UserID, limit int) ([]core.RecentView, error) {
	if a.feedback == nil {
		return []core.RecentView{}, nil
	}
	return a.feedback.GetRecentViews(ctx, user, limit)
}

// CoPurchaseCount 返回 (a,b) 的共购计数。
func (a *CoPurchase) CoPurchaseCount(ctx context.Context, x, y core.ProductID) (int64, error) {
	if a.feedback == nil {
		return 0, nil
	}
	return a.feedback.GetCoPurchaseCount(ctx, x, y)
}

// Recommend 基于共购计数为一组商品（如购物车）产出推荐。
//
// 对 products 中每个商品，累加它与所有共现商品的计数，
// 已在 products 里的商品被排除；累加和除以最大值归一化到 [0,1]，
// 有结果时最高分恒为 1.0。
func (a *CoPurchase) Recommend(ctx context.Context, products []core.ProductID, limit int) ([]core.Recommendation, error) {
	if a.feedback == nil || len(products) == 0 {
		return []core.Recommendation{}, nil
	}

	own := setsim.FromSlice(products)
	sums := make(map[core.ProductID]float64)
	for product := range own {
		counts, err := a.feedback.GetCoPurchasedWith(ctx, product)
		if err != nil {
			return nil, err
		}
		for candidate, n := range counts {
			if _, ok := own[candidate]; ok {
				continue
			}
			sums[candidate] += float64(n)
		}
	}

	if len(sums) == 0 {
		return []core.Recommendation{}, nil
	}

	var max float64
	for _, n := range sums {
		if n > max {
			max = n
		}
	}

	recs := make([]core.Recommendation, 0, len(sums))
	for candidate, n := range sums {
		recs = append(recs, core.Recommendation{
			Product: candidate,
			Score:   n / max,
			Source:  SourceCoPurchase,
		})
	}
	sortRecommendations(recs)
	return truncate(recs, limit), nil
}
