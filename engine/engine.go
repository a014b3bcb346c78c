// Package engine 把六个协同过滤组件组装成推荐引擎门面。
//
// 引擎自身无可变状态：配置构造时校验一次即不可变，全部持久
// 状态都在注入的存储里。多个调用方并发调用是安全的，不需要
// 内部加锁；所有阻塞都发生在存储客户端上，超时由存储客户端
// 自己的配置控制。
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/recall"
)

// Engine 是推荐引擎门面。
//
// 必选依赖：PurchaseHistoryStore。
// 可选依赖：FeedbackStore（缺失时浏览/共购/热门/统计降级）、
// SimilarityCache（缺失时相似物品每次重算）。
type Engine struct {
	cfg      core.Config
	history  core.PurchaseHistoryStore
	feedback core.FeedbackStore

	userCF     *recall.UserCF
	itemCF     *recall.ItemCF
	copurchase *recall.CoPurchase
	trending   *recall.Trending
	stats      *recall.Stats
}

// Option 配置 Engine 的可选依赖。
type Option func(*options)

type options struct {
	feedback core.FeedbackStore
	cache    core.SimilarityCache
	log      zerolog.Logger
}

// WithFeedback 注入隐式反馈存储。
func WithFeedback(feedback core.FeedbackStore) Option {
	return func(o *options) { o.feedback = feedback }
}

// WithCache 注入相似物品缓存。
func WithCache(cache core.SimilarityCache) Option {
	return func(o *options) { o.cache = cache }
}

// WithLogger 设置日志器（默认丢弃）。
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New 构造引擎。配置在此一次性校验：缺失或越界的阈值
// 立刻返回配置错误，不会延迟到请求时才暴露。
func New(cfg core.Config, history core.PurchaseHistoryStore, opts ...Option) (*Engine, error) {
	if history == nil {
		return nil, core.NewConfigError("purchase history store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	userCF, err := recall.NewUserCF(history, cfg)
	if err != nil {
		return nil, err
	}
	itemCF, err := recall.NewItemCF(history, o.cache, cfg, recall.WithItemCFLogger(o.log))
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		history:    history,
		feedback:   o.feedback,
		userCF:     userCF,
		itemCF:     itemCF,
		copurchase: recall.NewCoPurchase(o.feedback),
		trending:   recall.NewTrending(o.feedback),
		stats:      recall.NewStats(history, o.feedback),
	}, nil
}

// Config 返回构造期配置（值拷贝，不可变）。
func (e *Engine) Config() core.Config { return e.cfg }

// ---- 用户协同过滤 ----

// UserSimilarity 计算两个用户购买集的 Jaccard 相似度。
func (e *Engine) UserSimilarity(ctx context.Context, a, b core.UserID) (float64, error) {
	return e.userCF.Similarity(ctx, a, b)
}

// FindSimilarUsers 用配置阈值查找相似用户。
func (e *Engine) FindSimilarUsers(ctx context.Context, user core.UserID, limit int) ([]core.SimilarUser, error) {
	return e.userCF.FindSimilarUsers(ctx, user, limit)
}

// FindSimilarUsersMin 用指定阈值查找相似用户。
func (e *Engine) FindSimilarUsersMin(ctx context.Context, user core.UserID, minSimilarity float64, limit int) ([]core.SimilarUser, error) {
	return e.userCF.FindSimilarUsersMin(ctx, user, minSimilarity, limit)
}

// Recommend 基于相似用户产出推荐。
func (e *Engine) Recommend(ctx context.Context, user core.UserID, limit int) ([]core.Recommendation, error) {
	return e.userCF.Recommend(ctx, user, limit)
}

// ---- 物品协同过滤 ----

// ItemSimilarity 计算两个商品购买者集的 Jaccard 相似度。
func (e *Engine) ItemSimilarity(ctx context.Context, a, b core.ProductID) (float64, error) {
	return e.itemCF.Similarity(ctx, a, b)
}

// SimilarItems 返回与商品相似的商品（cache-aside）。
func (e *Engine) SimilarItems(ctx context.Context, product core.ProductID, limit int) ([]core.Recommendation, error) {
	return e.itemCF.SimilarItems(ctx, product, limit)
}

// RecommendByItems 基于物品相似度为用户产出推荐。
func (e *Engine) RecommendByItems(ctx context.Context, user core.UserID, limit int) ([]core.Recommendation, error) {
	return e.itemCF.Recommend(ctx, user, limit)
}

// ---- 共购与隐式反馈 ----

// RecordPurchase 记录一次购买事件（共购计数 + 购买集跟踪）。
// at 为零值时取当前时间。
func (e *Engine) RecordPurchase(ctx context.Context, user core.UserID, products []core.ProductID, at time.Time) error {
	return e.copurchase.RecordPurchase(ctx, user, products, at)
}

// CoPurchaseRecommendations 基于共购计数为一组商品产出推荐。
func (e *Engine) CoPurchaseRecommendations(ctx context.Context, products []core.ProductID, limit int) ([]core.Recommendation, error) {
	return e.copurchase.Recommend(ctx, products, limit)
}

// CoPurchaseCount 返回两个商品的共购计数（对称）。
func (e *Engine) CoPurchaseCount(ctx context.Context, a, b core.ProductID) (int64, error) {
	return e.copurchase.CoPurchaseCount(ctx, a, b)
}

// RecordView 记录一次商品浏览。
func (e *Engine) RecordView(ctx context.Context, user core.UserID, product core.ProductID) error {
	return e.copurchase.RecordView(ctx, user, product)
}

// RecentViews 返回用户最近浏览日志，新的在前。
func (e *Engine) RecentViews(ctx context.Context, user core.UserID, limit int) ([]core.RecentView, error) {
	return e.copurchase.RecentViews(ctx, user, limit)
}

// ---- 热门与统计 ----

// TrendingProducts 返回按全站浏览次数降序的热门榜单。
func (e *Engine) TrendingProducts(ctx context.Context, limit int) ([]core.TrendingEntry, error) {
	return e.trending.TrendingProducts(ctx, limit)
}

// Statistics 返回全局统计快照。
func (e *Engine) Statistics(ctx context.Context) (core.Statistics, error) {
	return e.stats.Statistics(ctx)
}
