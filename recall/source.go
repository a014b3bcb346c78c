package recall

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Source 是召回源的抽象：对一次请求产出候选推荐列表。
// 各协同过滤组件通过 node.go 中的包装器实现此接口，
// 也可以自定义 Source 接入 Fanout。
type Source interface {
	// Name 返回召回源名称（用于 Source 标记与观测）
	Name() string

	// Recall 执行召回
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]core.Recommendation, error)
}
