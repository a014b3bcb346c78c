package recall

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/setsim"
)

// SourceUserCF 是基于用户的协同过滤的来源标记。
const SourceUserCF = "recall.user_cf"

// similarUserBreadth 是聚合推荐时内部考察的相似用户数，
// 与调用方的最终 limit 无关。
const similarUserBreadth = 20

// UserCF 是基于用户的协同过滤（User-based Collaborative Filtering, u2i）。
//
// 核心思想："购买集相似的用户，会买相似的商品"
//
// 算法流程：
//  1. 取目标用户购买集
//  2. 对全量用户逐个计算购买集的 Jaccard 相似度（全扫描，复杂度 O(用户数)）
//  3. 取相似度 >= 阈值的 TopK 相似用户
//  4. 聚合这些用户买过、目标用户没买过的商品，按相似度累加打分
//
// 购买集每次调用都从 PurchaseHistoryStore 现读，引擎自身不缓存。
// 全扫描对中等数据量是可接受的；更大规模应离线预计算相似度索引，
// 对外行为保持不变。
type UserCF struct {
	history       core.PurchaseHistoryStore
	minSimilarity float64
}

// NewUserCF 创建基于用户的协同过滤召回。
// 配置在此一次性校验，之后不可变。
func NewUserCF(history core.PurchaseHistoryStore, cfg core.Config) (*UserCF, error) {
	if history == nil {
		return nil, core.NewConfigError("purchase history store is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &UserCF{
		history:       history,
		minSimilarity: cfg.MinUserSimilarity,
	}, nil
}

// Similarity 计算两个用户购买集的 Jaccard 相似度。
func (r *UserCF) Similarity(ctx context.Context, a, b core.UserID) (float64, error) {
	setA, err := r.history.GetProductsForUser(ctx, a)
	if err != nil {
		return 0, err
	}
	setB, err := r.history.GetProductsForUser(ctx, b)
	if err != nil {
		return 0, err
	}
	return setsim.Jaccard(setA, setB), nil
}

// FindSimilarUsers 用构造期配置的阈值查找相似用户。
func (r *UserCF) FindSimilarUsers(ctx context.Context, user core.UserID, limit int) ([]core.SimilarUser, error) {
	return r.FindSimilarUsersMin(ctx, user, r.minSimilarity, limit)
}

// FindSimilarUsersMin 查找与 user 相似度 >= minSimilarity 的用户，
// 按相似度降序、同分按 UserID 升序，截断到 limit。
//
// 结果不会包含 user 自己。任何存储错误原样传播：
// "没有相似用户"（空结果）与"存储不可用"（错误）是两回事。
func (r *UserCF) FindSimilarUsersMin(ctx context.Context, user core.UserID, minSimilarity float64, limit int) ([]core.SimilarUser, error) {
	target, err := r.history.GetProductsForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	allUsers, err := r.history.GetAllUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	similar := make([]core.SimilarUser, 0)
	for _, candidate := range allUsers {
		if candidate == user {
			continue
		}

		candidateSet, err := r.history.GetProductsForUser(ctx, candidate)
		if err != nil {
			return nil, err
		}

		score := setsim.Jaccard(target, candidateSet)
		if score >= minSimilarity {
			similar = append(similar, core.SimilarUser{User: candidate, Score: score})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].Score != similar[j].Score {
			return similar[i].Score > similar[j].Score
		}
		return similar[i].User < similar[j].User
	})

	if limit <= 0 {
		limit = defaultTopK
	}
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}

// Recommend 聚合相似用户的购买集产出推荐。
//
// 内部固定考察 Top 20 相似用户（similarUserBreadth），与 limit 无关；
// 候选商品的分数是所有贡献者相似度的累加；
// 目标用户已购商品绝不出现在结果里。
func (r *UserCF) Recommend(ctx context.Context, user core.UserID, limit int) ([]core.Recommendation, error) {
	neighbors, err := r.FindSimilarUsersMin(ctx, user, r.minSimilarity, similarUserBreadth)
	if err != nil {
		return nil, err
	}

	owned, err := r.history.GetProductsForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	scores := make(map[core.ProductID]float64)
	for _, neighbor := range neighbors {
		theirs, err := r.history.GetProductsForUser(ctx, neighbor.User)
		if err != nil {
			return nil, err
		}
		for product := range theirs {
			if _, ok := owned[product]; ok {
				continue
			}
			scores[product] += neighbor.Score
		}
	}

	recs := collect(scores, SourceUserCF)
	sortRecommendations(recs)
	return truncate(recs, limit), nil
}
