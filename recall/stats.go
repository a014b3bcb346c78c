package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Stats 是底层存储的只读聚合统计。
//
// 优先从 FeedbackStore 读取；FeedbackStore 为 nil 时降级为
// 对 PurchaseHistoryStore 的全扫描（此时共购模式数恒为 0）。
// 任何存储故障原样传播。
type Stats struct {
	history  core.PurchaseHistoryStore
	feedback core.FeedbackStore
}

// NewStats 创建统计器。feedback 可以为 nil。
func NewStats(history core.PurchaseHistoryStore, feedback core.FeedbackStore) *Stats {
	return &Stats{history: history, feedback: feedback}
}

// Statistics 返回全局统计快照。
func (s *Stats) Statistics(ctx context.Context) (core.Statistics, error) {
	if s.feedback == nil {
		return s.statisticsFromHistory(ctx)
	}

	users, err := s.feedback.GetAllKnownUsers(ctx)
	if err != nil {
		return core.Statistics{}, err
	}
	products, err := s.feedback.GetTrackedProducts(ctx)
	if err != nil {
		return core.Statistics{}, err
	}
	purchases, err := s.feedback.CountPurchases(ctx)
	if err != nil {
		return core.Statistics{}, err
	}
	patterns, err := s.feedback.CountCoPurchasePatterns(ctx)
	if err != nil {
		return core.Statistics{}, err
	}

	return core.Statistics{
		TotalUsers:              int64(len(users)),
		TotalItems:              int64(len(products)),
		TotalPurchases:          purchases,
		TotalCoPurchasePatterns: patterns,
	}, nil
}

func (s *Stats) statisticsFromHistory(ctx context.Context) (core.Statistics, error) {
	users, err := s.history.GetAllUserIDs(ctx)
	if err != nil {
		return core.Statistics{}, err
	}

	var purchases int64
	products := make(map[core.ProductID]struct{})
	for _, user := range users {
		set, err := s.history.GetProductsForUser(ctx, user)
		if err != nil {
			return core.Statistics{}, err
		}
		purchases += int64(len(set))
		for p := range set {
			products[p] = struct{}{}
		}
	}

	return core.Statistics{
		TotalUsers:     int64(len(users)),
		TotalItems:     int64(len(products)),
		TotalPurchases: purchases,
	}, nil
}
