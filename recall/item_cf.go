package recall

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/setsim"
)

// SourceItemCF 是基于物品的协同过滤的来源标记。
const SourceItemCF = "recall.item_cf"

const (
	// SimilarItemsTTL 是相似物品缓存的过期秒数。
	SimilarItemsTTL = 3600

	// itemNeighborBreadth 是聚合推荐时每个已购商品考察的相似物品数。
	itemNeighborBreadth = 10
)

// ItemCF 是基于物品的协同过滤（Item-based Collaborative Filtering, i2i）。
//
// 核心思想："被同一批用户购买的商品，相互相似"
//
// 相似物品列表走 cache-aside：先查缓存，未命中（或缓存不可用）
// 时用购买者集共现重算，算完回写缓存（TTL 3600 秒）。
// 缓存纯属优化：任何缓存读写故障都被吞掉并记日志，退化为直接重算，
// 绝不让请求失败。并发的同 key 重算用 singleflight 合并。
type ItemCF struct {
	history       core.PurchaseHistoryStore
	cache         core.SimilarityCache // 可选，nil 时每次重算
	minSimilarity float64
	log           zerolog.Logger

	sf singleflight.Group
}

// ItemCFOption 配置 ItemCF 的可选项。
type ItemCFOption func(*ItemCF)

// WithItemCFLogger 设置日志器（默认丢弃）。
func WithItemCFLogger(log zerolog.Logger) ItemCFOption {
	return func(r *ItemCF) { r.log = log }
}

// NewItemCF 创建基于物品的协同过滤召回。cache 可以为 nil。
func NewItemCF(history core.PurchaseHistoryStore, cache core.SimilarityCache, cfg core.Config, opts ...ItemCFOption) (*ItemCF, error) {
	if history == nil {
		return nil, core.NewConfigError("purchase history store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &ItemCF{
		history:       history,
		cache:         cache,
		minSimilarity: cfg.MinItemSimilarity,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Similarity 计算两个商品购买者集的 Jaccard 相似度。
func (r *ItemCF) Similarity(ctx context.Context, a, b core.ProductID) (float64, error) {
	setA, err := r.history.GetPurchasersForProduct(ctx, a)
	if err != nil {
		return 0, err
	}
	setB, err := r.history.GetPurchasersForProduct(ctx, b)
	if err != nil {
		return 0, err
	}
	return setsim.Jaccard(setA, setB), nil
}

// SimilarItems 返回与 product 相似的商品，按归一化共现分数降序。
//
// 分数是共现购买人次除以结果集中的最大值：有结果时最高分恒为 1.0。
// 归一化后低于 min_item_similarity 阈值的条目被丢弃。
func (r *ItemCF) SimilarItems(ctx context.Context, product core.ProductID, limit int) ([]core.Recommendation, error) {
	if r.cache != nil {
		cached, err := r.cache.GetSimilarItems(ctx, product)
		if err == nil {
			return truncate(cached, limit), nil
		}
		if !core.IsStoreNotFound(err) {
			// 缓存故障按未命中处理，直接重算
			r.log.Warn().Err(err).Int64("product", int64(product)).Msg("similar items cache read failed, recomputing")
		}
	}

	// 同一商品的并发重算合并为一次
	v, err, _ := r.sf.Do(strconv.FormatInt(int64(product), 10), func() (any, error) {
		return r.computeSimilarItems(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	recs := v.([]core.Recommendation)

	if r.cache != nil {
		if err := r.cache.SetSimilarItems(ctx, product, recs, SimilarItemsTTL); err != nil {
			r.log.Warn().Err(err).Int64("product", int64(product)).Msg("similar items cache write failed")
		}
	}
	return truncate(recs, limit), nil
}

// computeSimilarItems 用购买者集共现重算完整的相似物品列表。
// 存储错误原样传播，不降级为空结果。
func (r *ItemCF) computeSimilarItems(ctx context.Context, product core.ProductID) ([]core.Recommendation, error) {
	purchasers, err := r.history.GetPurchasersForProduct(ctx, product)
	if err != nil {
		return nil, err
	}

	counts := make(map[core.ProductID]float64)
	for user := range purchasers {
		theirs, err := r.history.GetProductsForUser(ctx, user)
		if err != nil {
			return nil, err
		}
		for other := range theirs {
			if other == product {
				continue
			}
			counts[other] += 1.0
		}
	}

	if len(counts) == 0 {
		return []core.Recommendation{}, nil
	}

	var max float64
	for _, n := range counts {
		if n > max {
			max = n
		}
	}

	recs := make([]core.Recommendation, 0, len(counts))
	for other, n := range counts {
		score := n / max
		if score < r.minSimilarity {
			continue
		}
		recs = append(recs, core.Recommendation{
			Product: other,
			Score:   score,
			Source:  SourceItemCF,
		})
	}
	sortRecommendations(recs)
	return recs, nil
}

// Recommend 为用户聚合物品相似度推荐。
//
// 对用户购买集中的每个商品取 Top 10 相似物品（itemNeighborBreadth），
// 跨商品累加候选分数；用户已购商品被跳过。
func (r *ItemCF) Recommend(ctx context.Context, user core.UserID, limit int) ([]core.Recommendation, error) {
	owned, err := r.history.GetProductsForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	scores := make(map[core.ProductID]float64)
	for product := range owned {
		similar, err := r.SimilarItems(ctx, product, itemNeighborBreadth)
		if err != nil {
			return nil, err
		}
		for _, rec := range similar {
			if _, ok := owned[rec.Product]; ok {
				continue
			}
			scores[rec.Product] += rec.Score
		}
	}

	recs := collect(scores, SourceItemCF)
	sortRecommendations(recs)
	return truncate(recs, limit), nil
}
