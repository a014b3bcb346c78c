package recall

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func TestStats_FromFeedback(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	a := NewCoPurchase(mem)

	if err := a.RecordPurchase(ctx, "u1", []core.ProductID{1, 2}, time.Time{}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if err := a.RecordPurchase(ctx, "u2", []core.ProductID{2, 3}, time.Time{}); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}

	got, err := NewStats(mem, mem).Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := core.Statistics{
		TotalUsers:              2,
		TotalItems:              3,
		TotalPurchases:          4,
		TotalCoPurchasePatterns: 4, // 无序对 (1,2) 和 (2,3)，各 2 个有序键
	}
	if got != want {
		t.Errorf("Statistics = %+v, want %+v", got, want)
	}
}

func TestStats_CountsViewers(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	a := NewCoPurchase(mem)

	// 只浏览未购买的用户也计入 TotalUsers
	if err := a.RecordView(ctx, "viewer", 1); err != nil {
		t.Fatalf("RecordView: %v", err)
	}

	got, err := NewStats(mem, mem).Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if got.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", got.TotalUsers)
	}
	if got.TotalItems != 0 || got.TotalPurchases != 0 {
		t.Errorf("view must not count as purchase: %+v", got)
	}
}

func TestStats_HistoryFallback(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPurchase(t, mem, "u1", 1, 2)
	seedPurchase(t, mem, "u2", 2)

	got, err := NewStats(mem, nil).Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	want := core.Statistics{
		TotalUsers:     2,
		TotalItems:     2,
		TotalPurchases: 3,
		// 无 FeedbackStore 时共购模式数恒为 0
	}
	if got != want {
		t.Errorf("Statistics = %+v, want %+v", got, want)
	}
}

func TestStats_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	if _, err := NewStats(failingHistory{}, nil).Statistics(ctx); !core.IsStoreError(err) {
		t.Errorf("Statistics error = %v, want StoreError", err)
	}
}
