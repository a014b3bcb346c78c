package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/shoprec/core"
)

// Memory 是内存实现的存储，用于测试/开发/原型。
// 同时实现 core.PurchaseHistoryStore、core.FeedbackStore、
// core.SimilarityCache 和 core.KVStore；进程重启后数据丢失。
//
// 购买历史与反馈数据共用同一份集合：AddPurchase 写入的购买集
// 即 GetProductsForUser 读到的购买集。生产部署应改用订单库适配器
// 提供购买历史，本实现只是一个自洽的测试替身。
type Memory struct {
	mu sync.RWMutex

	purchases  map[core.UserID]map[core.ProductID]struct{} // 用户 -> 购买集
	purchasers map[core.ProductID]map[core.UserID]struct{} // 商品 -> 购买者集
	users      map[core.UserID]struct{}                    // 全局已知用户集

	copurchase map[core.ProductID]map[core.ProductID]int64 // 有序键 (A,B) -> 共购计数
	views      map[core.UserID]map[core.ProductID]int64    // (用户, 商品) -> 浏览计数
	recent     map[core.UserID][]core.RecentView           // 最近浏览日志，新的在前

	cache map[core.ProductID]cacheEntry // 相似物品缓存
	kv    map[string]kvEntry            // 通用 KV
}

type cacheEntry struct {
	recs    []core.Recommendation
	expires time.Time // 零值表示不过期
}

type kvEntry struct {
	value   []byte
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{
		purchases:  make(map[core.UserID]map[core.ProductID]struct{}),
		purchasers: make(map[core.ProductID]map[core.UserID]struct{}),
		users:      make(map[core.UserID]struct{}),
		copurchase: make(map[core.ProductID]map[core.ProductID]int64),
		views:      make(map[core.UserID]map[core.ProductID]int64),
		recent:     make(map[core.UserID][]core.RecentView),
		cache:      make(map[core.ProductID]cacheEntry),
		kv:         make(map[string]kvEntry),
	}
}

func (m *Memory) Name() string { return "memory" }

// ---- core.PurchaseHistoryStore ----

func (m *Memory) GetProductsForUser(ctx context.Context, user core.UserID) (map[core.ProductID]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[core.ProductID]struct{}, len(m.purchases[user]))
	for p := range m.purchases[user] {
		out[p] = struct{}{}
	}
	return out, nil
}

func (m *Memory) GetPurchasersForProduct(ctx context.Context, product core.ProductID) (map[core.UserID]struct{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[core.UserID]struct{}, len(m.purchasers[product]))
	for u := range m.purchasers[product] {
		out[u] = struct{}{}
	}
	return out, nil
}

func (m *Memory) GetAllUserIDs(ctx context.Context) ([]core.UserID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.UserID, 0, len(m.users))
	for u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

// ---- core.FeedbackStore ----

func (m *Memory) RecordCoPurchasePair(ctx context.Context, a, b core.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.incrPair(a, b)
	m.incrPair(b, a)
	return nil
}

func (m *Memory) incrPair(a, b core.ProductID) {
	if m.copurchase[a] == nil {
		m.copurchase[a] = make(map[core.ProductID]int64)
	}
	m.copurchase[a][b]++
}

func (m *Memory) AddPurchase(ctx context.Context, user core.UserID, product core.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.purchases[user] == nil {
		m.purchases[user] = make(map[core.ProductID]struct{})
	}
	m.purchases[user][product] = struct{}{}

	if m.purchasers[product] == nil {
		m.purchasers[product] = make(map[core.UserID]struct{})
	}
	m.purchasers[product][user] = struct{}{}

	m.users[user] = struct{}{}
	return nil
}

func (m *Memory) RecordView(ctx context.Context, user core.UserID, product core.ProductID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.views[user] == nil {
		m.views[user] = make(map[core.ProductID]int64)
	}
	m.views[user][product]++
	m.users[user] = struct{}{}

	log := append([]core.RecentView{{Product: product, ViewedAt: at}}, m.recent[user]...)
	if len(log) > core.RecentViewLimit {
		log = log[:core.RecentViewLimit]
	}
	m.recent[user] = log
	return nil
}

func (m *Memory) GetCoPurchaseCount(ctx context.Context, a, b core.ProductID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.copurchase[a][b], nil
}

func (m *Memory) GetCoPurchasedWith(ctx context.Context, product core.ProductID) (map[core.ProductID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[core.ProductID]int64, len(m.copurchase[product]))
	for p, n := range m.copurchase[product] {
		out[p] = n
	}
	return out, nil
}

func (m *Memory) GetViewCounts(ctx context.Context, user core.UserID) (map[core.ProductID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[core.ProductID]int64, len(m.views[user]))
	for p, n := range m.views[user] {
		out[p] = n
	}
	return out, nil
}

func (m *Memory) GetRecentViews(ctx context.Context, user core.UserID, limit int) ([]core.RecentView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.recent[user]
	if limit > 0 && len(log) > limit {
		log = log[:limit]
	}
	out := make([]core.RecentView, len(log))
	copy(out, log)
	return out, nil
}

func (m *Memory) GetAllKnownUsers(ctx context.Context) ([]core.UserID, error) {
	return m.GetAllUserIDs(ctx)
}

func (m *Memory) GetTrackedProducts(ctx context.Context) ([]core.ProductID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.ProductID, 0, len(m.purchasers))
	for p, users := range m.purchasers {
		if len(users) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) CountPurchases(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, set := range m.purchases {
		total += int64(len(set))
	}
	return total, nil
}

func (m *Memory) CountCoPurchasePatterns(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 模式数按有序键 (A,B) 统计：对称存储意味着每个无序对贡献 2
	var total int64
	for _, row := range m.copurchase {
		for _, n := range row {
			if n != 0 {
				total++
			}
		}
	}
	return total, nil
}

// ---- core.SimilarityCache ----

func (m *Memory) GetSimilarItems(ctx context.Context, product core.ProductID) ([]core.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.cache[product]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		return nil, core.ErrStoreNotFound
	}
	out := make([]core.Recommendation, len(e.recs))
	copy(out, e.recs)
	return out, nil
}

func (m *Memory) SetSimilarItems(ctx context.Context, product core.ProductID, recs []core.Recommendation, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := cacheEntry{recs: make([]core.Recommendation, len(recs))}
	copy(e.recs, recs)
	if ttl > 0 {
		e.expires = time.Now().Add(time.Duration(ttl) * time.Second)
	}
	m.cache[product] = e
	return nil
}

// ---- core.KVStore ----

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.kv[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := kvEntry{value: value}
	if len(ttl) > 0 && ttl[0] > 0 {
		e.expires = time.Now().Add(time.Duration(ttl[0]) * time.Second)
	}
	m.kv[key] = e
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.kv, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// 确保 Memory 实现了全部领域接口
var (
	_ core.PurchaseHistoryStore = (*Memory)(nil)
	_ core.FeedbackStore        = (*Memory)(nil)
	_ core.SimilarityCache      = (*Memory)(nil)
	_ core.KVStore              = (*Memory)(nil)
)
