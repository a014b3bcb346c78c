package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rushteam/shoprec/core"
)

// HistoryKV 是基于 core.KVStore 的购买历史适配器。
// 适合无法直连订单库的部署：由离线任务把已接受/已发货订单
// 导出为 JSON 集合写进 KV，在线侧只读。
//
// Key 设计：
//   - 用户购买集：   {KeyPrefix}:user:{userID}    (JSON []int64)
//   - 商品购买者集： {KeyPrefix}:product:{productID} (JSON []string)
//   - 全部用户列表： {KeyPrefix}:users            (JSON []string)
//
// key 不存在视为"查无数据"返回空集合；其余错误原样传播。
type HistoryKV struct {
	kv core.KVStore

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

func NewHistoryKV(kv core.KVStore, keyPrefix string) *HistoryKV {
	if keyPrefix == "" {
		keyPrefix = "history"
	}
	return &HistoryKV{
		kv:        kv,
		KeyPrefix: keyPrefix,
	}
}

func (a *HistoryKV) Name() string { return "history_kv" }

func (a *HistoryKV) GetProductsForUser(ctx context.Context, user core.UserID) (map[core.ProductID]struct{}, error) {
	key := a.KeyPrefix + ":user:" + string(user)
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return make(map[core.ProductID]struct{}), nil
		}
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.NewStoreError("unmarshal purchase set", err)
	}

	out := make(map[core.ProductID]struct{}, len(ids))
	for _, id := range ids {
		out[core.ProductID(id)] = struct{}{}
	}
	return out, nil
}

func (a *HistoryKV) GetPurchasersForProduct(ctx context.Context, product core.ProductID) (map[core.UserID]struct{}, error) {
	key := a.KeyPrefix + ":product:" + strconv.FormatInt(int64(product), 10)
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return make(map[core.UserID]struct{}), nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.NewStoreError("unmarshal purchaser set", err)
	}

	out := make(map[core.UserID]struct{}, len(ids))
	for _, id := range ids {
		out[core.UserID(id)] = struct{}{}
	}
	return out, nil
}

func (a *HistoryKV) GetAllUserIDs(ctx context.Context) ([]core.UserID, error) {
	key := a.KeyPrefix + ":users"
	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return []core.UserID{}, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.NewStoreError("unmarshal user list", err)
	}

	out := make([]core.UserID, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.UserID(id))
	}
	return out, nil
}

var _ core.PurchaseHistoryStore = (*HistoryKV)(nil)
