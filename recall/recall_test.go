package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/store"
)

// 测试共用的造数工具与故障替身。

func seedPurchase(t *testing.T, mem *store.Memory, user core.UserID, products ...core.ProductID) {
	t.Helper()
	ctx := context.Background()
	for _, p := range products {
		if err := mem.AddPurchase(ctx, user, p); err != nil {
			t.Fatalf("AddPurchase: %v", err)
		}
	}
}

var errBroken = errors.New("connection refused")

// failingHistory 是所有读操作都返回 StoreError 的购买历史替身。
type failingHistory struct{}

func (failingHistory) Name() string { return "failing" }

func (failingHistory) GetProductsForUser(context.Context, core.UserID) (map[core.ProductID]struct{}, error) {
	return nil, core.NewStoreError("get products", errBroken)
}

func (failingHistory) GetPurchasersForProduct(context.Context, core.ProductID) (map[core.UserID]struct{}, error) {
	return nil, core.NewStoreError("get purchasers", errBroken)
}

func (failingHistory) GetAllUserIDs(context.Context) ([]core.UserID, error) {
	return nil, core.NewStoreError("get all users", errBroken)
}

// failingCache 是读写都失败的缓存替身，用于验证缓存故障降级。
type failingCache struct {
	gets int
	sets int
}

func (c *failingCache) GetSimilarItems(context.Context, core.ProductID) ([]core.Recommendation, error) {
	c.gets++
	return nil, core.NewStoreError("cache get", errBroken)
}

func (c *failingCache) SetSimilarItems(context.Context, core.ProductID, []core.Recommendation, int) error {
	c.sets++
	return core.NewStoreError("cache set", errBroken)
}

// fixedClock 返回递增的时间序列，便于断言最近浏览日志的次序。
func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}
