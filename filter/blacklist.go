package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Blacklist 是静态商品黑名单过滤器（下架、违规、运营屏蔽等）。
type Blacklist struct {
	products map[core.ProductID]struct{}
}

// NewBlacklist 创建黑名单过滤器。
func NewBlacklist(products ...core.ProductID) *Blacklist {
	set := make(map[core.ProductID]struct{}, len(products))
	for _, p := range products {
		set[p] = struct{}{}
	}
	return &Blacklist{products: set}
}

func (f *Blacklist) Name() string { return "filter.blacklist" }

func (f *Blacklist) ShouldFilter(_ context.Context, _ *core.RecommendContext, rec core.Recommendation) (bool, error) {
	_, ok := f.products[rec.Product]
	return ok, nil
}
