package recall

import (
	"context"
	"testing"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

func newItemCF(t *testing.T, mem *store.Memory, cache core.SimilarityCache) *ItemCF {
	t.Helper()
	cf, err := NewItemCF(mem, cache, core.Config{})
	if err != nil {
		t.Fatalf("NewItemCF: %v", err)
	}
	return cf
}

func TestItemCF_Similarity(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	// 商品 1 的购买者 {a,b}，商品 2 的购买者 {b,c}
	seedPurchase(t, mem, "a", 1)
	seedPurchase(t, mem, "b", 1, 2)
	seedPurchase(t, mem, "c", 2)

	cf := newItemCF(t, mem, nil)

	got, err := cf.Similarity(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	if got != 1.0/3.0 {
		t.Errorf("Similarity() = %v, want %v", got, 1.0/3.0)
	}
}

func TestItemCF_SimilarItems_Normalization(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	// 商品 10 与 20 共现 2 人次，与 30 共现 1 人次
	seedPurchase(t, mem, "a", 10, 20)
	seedPurchase(t, mem, "b", 10, 20, 30)

	cf := newItemCF(t, mem, nil)

	got, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("SimilarItems: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(got), got)
	}

	// 最高分恒为 1.0
	if got[0].Product != 20 || got[0].Score != 1.0 {
		t.Errorf("top entry = %v, want (20, 1.0)", got[0])
	}
	if got[1].Product != 30 || got[1].Score != 0.5 {
		t.Errorf("second entry = %v, want (30, 0.5)", got[1])
	}
	for _, rec := range got {
		if rec.Score < 0 || rec.Score > 1 {
			t.Errorf("score %v out of [0,1]", rec.Score)
		}
	}
}

func TestItemCF_SimilarItems_NoCooccurrence(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPurchase(t, mem, "a", 10)

	cf := newItemCF(t, mem, nil)

	got, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("SimilarItems: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestItemCF_SimilarItems_CacheHit(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPurchase(t, mem, "a", 10, 20)

	cf := newItemCF(t, mem, mem)

	first, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("SimilarItems (miss): %v", err)
	}

	// 改写底层数据：命中缓存时不应反映新数据
	seedPurchase(t, mem, "b", 10, 30)

	second, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("SimilarItems (hit): %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("cache hit returned different result: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cache hit mismatch at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestItemCF_SimilarItems_CacheFailureDegrades(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPurchase(t, mem, "a", 10, 20)

	cache := &failingCache{}
	cf := newItemCF(t, mem, cache)

	got, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("cache failure must not fail the request: %v", err)
	}
	if len(got) != 1 || got[0].Product != 20 {
		t.Errorf("got %v, want [(20, 1.0)]", got)
	}
	if cache.gets == 0 || cache.sets == 0 {
		t.Errorf("cache should have been attempted: gets=%d sets=%d", cache.gets, cache.sets)
	}
}

func TestItemCF_SimilarItems_MinSimilarityFilters(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	// 20 归一化后 1.0，30 归一化后 0.5
	seedPurchase(t, mem, "a", 10, 20)
	seedPurchase(t, mem, "b", 10, 20, 30)

	cf, err := NewItemCF(mem, nil, core.Config{MinItemSimilarity: 0.6})
	if err != nil {
		t.Fatalf("NewItemCF: %v", err)
	}

	got, err := cf.SimilarItems(ctx, 10, 5)
	if err != nil {
		t.Fatalf("SimilarItems: %v", err)
	}
	if len(got) != 1 || got[0].Product != 20 {
		t.Errorf("got %v, want only product 20", got)
	}
}

func TestItemCF_Recommend(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seedPurchase(t, mem, "target", 1, 2)
	seedPurchase(t, mem, "a", 1, 3)
	seedPurchase(t, mem, "b", 2, 3)
	seedPurchase(t, mem, "c", 2, 4)

	cf := newItemCF(t, mem, nil)

	got, err := cf.Recommend(ctx, "target", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	for _, rec := range got {
		if rec.Product == 1 || rec.Product == 2 {
			t.Errorf("recommended an owned product: %v", rec)
		}
		if rec.Source != SourceItemCF {
			t.Errorf("wrong source: %q", rec.Source)
		}
	}
	if len(got) == 0 {
		t.Fatal("expected recommendations, got none")
	}
	// 商品 3 与两个已购商品都共现，应排最前
	if got[0].Product != 3 {
		t.Errorf("top product = %v, want 3 (recs: %v)", got[0].Product, got)
	}
}

func TestItemCF_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	cf, err := NewItemCF(failingHistory{}, nil, core.Config{})
	if err != nil {
		t.Fatalf("NewItemCF: %v", err)
	}

	if _, err := cf.SimilarItems(ctx, 1, 5); !core.IsStoreError(err) {
		t.Errorf("SimilarItems error = %v, want StoreError", err)
	}
	if _, err := cf.Recommend(ctx, "u", 5); !core.IsStoreError(err) {
		t.Errorf("Recommend error = %v, want StoreError", err)
	}
}
