package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/shoprec/core"
)

// Redis 是 Redis 实现的存储：购买历史、隐式反馈、相似度缓存与通用 KV。
// 生产环境常用，支持持久化、集群、哨兵等。
//
// Key 设计：
//   - 共购计数：     cp:{A}  (hash, field = B, value = count)
//   - 用户购买集：   user:products:{u}  (set)
//   - 商品购买者集： product:users:{p}  (set)
//   - 已知用户集：   users  (set)
//   - 有购买者商品： products  (set)
//   - 浏览计数：     views:{u}  (hash, field = product)
//   - 最近浏览日志： recent:{u}  (list, LPUSH + LTRIM 截断到 RecentViewLimit)
//   - 相似度缓存：   similar_items:{p}  (string, JSON, SET EX)
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, core.NewStoreError("redis PING", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisWithClient 复用外部已建好的客户端（连接池、集群模式由调用方配置）。
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Name() string { return "redis" }

func productField(p core.ProductID) string {
	return strconv.FormatInt(int64(p), 10)
}

func parseProduct(s string) (core.ProductID, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return core.ProductID(id), true
}

// ---- core.PurchaseHistoryStore ----
// 购买集由 AddPurchase 维护，读写共用同一份 set。

func (r *Redis) GetProductsForUser(ctx context.Context, user core.UserID) (map[core.ProductID]struct{}, error) {
	vals, err := r.client.SMembers(ctx, "user:products:"+string(user)).Result()
	if err != nil {
		return nil, core.NewStoreError("redis SMEMBERS user products", err)
	}

	out := make(map[core.ProductID]struct{}, len(vals))
	for _, v := range vals {
		if p, ok := parseProduct(v); ok {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

func (r *Redis) GetPurchasersForProduct(ctx context.Context, product core.ProductID) (map[core.UserID]struct{}, error) {
	vals, err := r.client.SMembers(ctx, "product:users:"+productField(product)).Result()
	if err != nil {
		return nil, core.NewStoreError("redis SMEMBERS product users", err)
	}

	out := make(map[core.UserID]struct{}, len(vals))
	for _, v := range vals {
		out[core.UserID(v)] = struct{}{}
	}
	return out, nil
}

func (r *Redis) GetAllUserIDs(ctx context.Context) ([]core.UserID, error) {
	return r.GetAllKnownUsers(ctx)
}

// ---- core.FeedbackStore ----

func (r *Redis) RecordCoPurchasePair(ctx context.Context, a, b core.ProductID) error {
	// 两个方向放进同一个 pipeline，作为一个逻辑操作提交
	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, "cp:"+productField(a), productField(b), 1)
	pipe.HIncrBy(ctx, "cp:"+productField(b), productField(a), 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewStoreError("redis HINCRBY copurchase", err)
	}
	return nil
}

func (r *Redis) AddPurchase(ctx context.Context, user core.UserID, product core.ProductID) error {
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, "user:products:"+string(user), productField(product))
	pipe.SAdd(ctx, "product:users:"+productField(product), string(user))
	pipe.SAdd(ctx, "users", string(user))
	pipe.SAdd(ctx, "products", productField(product))
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewStoreError("redis SADD purchase", err)
	}
	return nil
}

func (r *Redis) RecordView(ctx context.Context, user core.UserID, product core.ProductID, at time.Time) error {
	entry, err := json.Marshal(core.RecentView{Product: product, ViewedAt: at})
	if err != nil {
		return core.NewStoreError("marshal recent view", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, "views:"+string(user), productField(product), 1)
	pipe.LPush(ctx, "recent:"+string(user), entry)
	pipe.LTrim(ctx, "recent:"+string(user), 0, core.RecentViewLimit-1)
	pipe.SAdd(ctx, "users", string(user))
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewStoreError("redis record view", err)
	}
	return nil
}

func (r *Redis) GetCoPurchaseCount(ctx context.Context, a, b core.ProductID) (int64, error) {
	val, err := r.client.HGet(ctx, "cp:"+productField(a), productField(b)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, core.NewStoreError("redis HGET copurchase", err)
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, core.NewStoreError("parse copurchase count", err)
	}
	return n, nil
}

func (r *Redis) GetCoPurchasedWith(ctx context.Context, product core.ProductID) (map[core.ProductID]int64, error) {
	vals, err := r.client.HGetAll(ctx, "cp:"+productField(product)).Result()
	if err != nil {
		return nil, core.NewStoreError("redis HGETALL copurchase", err)
	}

	out := make(map[core.ProductID]int64, len(vals))
	for field, val := range vals {
		p, ok := parseProduct(field)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		out[p] = n
	}
	return out, nil
}

func (r *Redis) GetViewCounts(ctx context.Context, user core.UserID) (map[core.ProductID]int64, error) {
	vals, err := r.client.HGetAll(ctx, "views:"+string(user)).Result()
	if err != nil {
		return nil, core.NewStoreError("redis HGETALL views", err)
	}

	out := make(map[core.ProductID]int64, len(vals))
	for field, val := range vals {
		p, ok := parseProduct(field)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		out[p] = n
	}
	return out, nil
}

func (r *Redis) GetRecentViews(ctx context.Context, user core.UserID, limit int) ([]core.RecentView, error) {
	stop := int64(core.RecentViewLimit - 1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	vals, err := r.client.LRange(ctx, "recent:"+string(user), 0, stop).Result()
	if err != nil {
		return nil, core.NewStoreError("redis LRANGE recent", err)
	}

	out := make([]core.RecentView, 0, len(vals))
	for _, val := range vals {
		var rv core.RecentView
		if json.Unmarshal([]byte(val), &rv) != nil {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (r *Redis) GetAllKnownUsers(ctx context.Context) ([]core.UserID, error) {
	vals, err := r.client.SMembers(ctx, "users").Result()
	if err != nil {
		return nil, core.NewStoreError("redis SMEMBERS users", err)
	}

	out := make([]core.UserID, 0, len(vals))
	for _, v := range vals {
		out = append(out, core.UserID(v))
	}
	return out, nil
}

func (r *Redis) GetTrackedProducts(ctx context.Context) ([]core.ProductID, error) {
	vals, err := r.client.SMembers(ctx, "products").Result()
	if err != nil {
		return nil, core.NewStoreError("redis SMEMBERS products", err)
	}

	out := make([]core.ProductID, 0, len(vals))
	for _, v := range vals {
		if p, ok := parseProduct(v); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Redis) CountPurchases(ctx context.Context) (int64, error) {
	users, err := r.client.SMembers(ctx, "users").Result()
	if err != nil {
		return 0, core.NewStoreError("redis SMEMBERS users", err)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, 0, len(users))
	for _, u := range users {
		cmds = append(cmds, pipe.SCard(ctx, "user:products:"+u))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, core.NewStoreError("redis SCARD purchases", err)
	}

	var total int64
	for _, cmd := range cmds {
		total += cmd.Val()
	}
	return total, nil
}

func (r *Redis) CountCoPurchasePatterns(ctx context.Context) (int64, error) {
	products, err := r.client.SMembers(ctx, "products").Result()
	if err != nil {
		return 0, core.NewStoreError("redis SMEMBERS products", err)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, 0, len(products))
	for _, p := range products {
		cmds = append(cmds, pipe.HLen(ctx, "cp:"+p))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, core.NewStoreError("redis HLEN copurchase", err)
	}

	// 模式数按有序键 (A,B) 统计：每个无序对在两个 hash 里各占一个字段
	var total int64
	for _, cmd := range cmds {
		total += cmd.Val()
	}
	return total, nil
}

// ---- core.SimilarityCache ----

func (r *Redis) GetSimilarItems(ctx context.Context, product core.ProductID) ([]core.Recommendation, error) {
	data, err := r.client.Get(ctx, "similar_items:"+productField(product)).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, core.NewStoreError("redis GET similar_items", err)
	}

	var recs []core.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, core.NewStoreError("unmarshal similar_items", err)
	}
	return recs, nil
}

func (r *Redis) SetSimilarItems(ctx context.Context, product core.ProductID, recs []core.Recommendation, ttl int) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return core.NewStoreError("marshal similar_items", err)
	}

	var expiration time.Duration
	if ttl > 0 {
		expiration = time.Duration(ttl) * time.Second
	}
	if err := r.client.Set(ctx, "similar_items:"+productField(product), data, expiration).Err(); err != nil {
		return core.NewStoreError("redis SET similar_items", err)
	}
	return nil
}

// ---- core.KVStore ----

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrStoreNotFound
	}
	if err != nil {
		return nil, core.NewStoreError("redis GET", err)
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	var expiration time.Duration
	if len(ttl) > 0 && ttl[0] > 0 {
		expiration = time.Duration(ttl[0]) * time.Second
	}
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return core.NewStoreError("redis SET", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return core.NewStoreError("redis DEL", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// 确保 Redis 实现了全部领域接口
var (
	_ core.PurchaseHistoryStore = (*Redis)(nil)
	_ core.FeedbackStore        = (*Redis)(nil)
	_ core.SimilarityCache      = (*Redis)(nil)
	_ core.KVStore              = (*Redis)(nil)
)
