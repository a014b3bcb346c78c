package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func TestNew_Validation(t *testing.T) {
	mem := store.NewMemory()

	tests := []struct {
		name    string
		cfg     core.Config
		history core.PurchaseHistoryStore
		wantErr bool
	}{
		{"valid", core.Config{MinUserSimilarity: 0.1, MinItemSimilarity: 0.1}, mem, false},
		{"zero thresholds", core.Config{}, mem, false},
		{"nil history", core.Config{}, nil, true},
		{"threshold above range", core.Config{MinUserSimilarity: 1.5}, mem, true},
		{"threshold below range", core.Config{MinItemSimilarity: -0.1}, mem, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.history)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !core.IsConfigError(err) {
				t.Errorf("New() error = %v, want config error", err)
			}
		})
	}
}

func newEngine(t *testing.T) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	e, err := New(core.Config{}, mem, WithFeedback(mem), WithCache(mem))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, mem
}

func TestEngine_EndToEnd(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)

	orders := []struct {
		user     core.UserID
		products []core.ProductID
	}{
		{"alice", []core.ProductID{1, 2}},
		{"bob", []core.ProductID{1, 2, 3}},
		{"carol", []core.ProductID{2, 3, 4}},
	}
	for _, o := range orders {
		if err := e.RecordPurchase(ctx, o.user, o.products, time.Time{}); err != nil {
			t.Fatalf("RecordPurchase: %v", err)
		}
	}

	// 用户相似度：alice{1,2} vs bob{1,2,3} = 2/3
	sim, err := e.UserSimilarity(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("UserSimilarity: %v", err)
	}
	if sim != 2.0/3.0 {
		t.Errorf("UserSimilarity = %v, want %v", sim, 2.0/3.0)
	}

	// 用户 CF 推荐不含已购商品
	recs, err := e.Recommend(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected user-CF recommendations")
	}
	for _, rec := range recs {
		if rec.Product == 1 || rec.Product == 2 {
			t.Errorf("owned product leaked: %v", rec)
		}
	}

	// 物品 CF：走缓存路径
	similar, err := e.SimilarItems(ctx, 2, 10)
	if err != nil {
		t.Fatalf("SimilarItems: %v", err)
	}
	if len(similar) == 0 {
		t.Fatal("expected similar items for product 2")
	}
	if similar[0].Score != 1.0 {
		t.Errorf("top similar score = %v, want 1.0", similar[0].Score)
	}

	byItems, err := e.RecommendByItems(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("RecommendByItems: %v", err)
	}
	for _, rec := range byItems {
		if rec.Product == 1 || rec.Product == 2 {
			t.Errorf("owned product leaked: %v", rec)
		}
	}

	// 共购
	n, err := e.CoPurchaseCount(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CoPurchaseCount: %v", err)
	}
	if n != 2 {
		t.Errorf("CoPurchaseCount(1,2) = %d, want 2", n)
	}
	cop, err := e.CoPurchaseRecommendations(ctx, []core.ProductID{1}, 10)
	if err != nil {
		t.Fatalf("CoPurchaseRecommendations: %v", err)
	}
	if len(cop) == 0 || cop[0].Score != 1.0 {
		t.Errorf("CoPurchaseRecommendations = %v, want normalized scores", cop)
	}

	// 浏览、热门、统计
	for i := 0; i < 3; i++ {
		if err := e.RecordView(ctx, "alice", 4); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	views, err := e.RecentViews(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("RecentViews: %v", err)
	}
	if len(views) != 3 || views[0].Product != 4 {
		t.Errorf("RecentViews = %v", views)
	}

	trending, err := e.TrendingProducts(ctx, 10)
	if err != nil {
		t.Fatalf("TrendingProducts: %v", err)
	}
	if len(trending) != 1 || trending[0].Product != 4 || trending[0].Views != 3 {
		t.Errorf("TrendingProducts = %v, want [(4, 3)]", trending)
	}

	stats, err := e.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalUsers != 3 || stats.TotalItems != 4 || stats.TotalPurchases != 8 {
		t.Errorf("Statistics = %+v", stats)
	}
	if stats.TotalCoPurchasePatterns == 0 {
		t.Error("expected co-purchase patterns")
	}
}

func TestEngine_WithoutFeedback(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	e, err := New(core.Config{}, mem)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 反馈存储缺失时写入降级为 no-op，查询降级为空
	if err := e.RecordPurchase(ctx, "u", []core.ProductID{1, 2}, time.Time{}); err != nil {
		t.Errorf("RecordPurchase: %v", err)
	}
	if err := e.RecordView(ctx, "u", 1); err != nil {
		t.Errorf("RecordView: %v", err)
	}
	if trending, err := e.TrendingProducts(ctx, 10); err != nil || len(trending) != 0 {
		t.Errorf("TrendingProducts = (%v, %v), want empty", trending, err)
	}

	stats, err := e.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats != (core.Statistics{}) {
		t.Errorf("Statistics = %+v, want zero", stats)
	}
}
