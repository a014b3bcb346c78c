package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流、优先级合并策略。
//
// 单个召回源超时或出错时只丢弃它自己的结果，不中断其他来源；
// 这是有意的 best-effort 语义，与引擎直连接口的"存储错误必须
// 传播"不同——Fanout 面向多路冗余召回的在线场景。
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string        // 合并策略：first / union / priority（优先级按 Sources 顺序）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []core.Recommendation,
) ([]core.Recommendation, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	type sourceResult struct {
		priority int
		recs     []core.Recommendation
	}

	var (
		mu      sync.Mutex
		results []sourceResult
		eg, _   = errgroup.WithContext(ctx)
	)

	// 限流：使用 semaphore 控制并发数
	var sem chan struct{}
	if n.MaxConcurrent > 0 {
		sem = make(chan struct{}, n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		s := src
		priority := i // 优先级（索引越小优先级越高）

		eg.Go(func() error {
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			recs, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他召回源
				return nil
			}

			mu.Lock()
			results = append(results, sourceResult{priority: priority, recs: recs})
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按优先级恢复确定性顺序（goroutine 完成顺序不可依赖）
	ordered := make([]core.Recommendation, 0)
	for p := 0; p < len(n.Sources); p++ {
		for _, res := range results {
			if res.priority == p {
				ordered = append(ordered, res.recs...)
			}
		}
	}

	switch n.MergeStrategy {
	case "union":
		return ordered, nil
	case "priority", "first":
		fallthrough
	default:
		return n.dedupFirst(ordered), nil
	}
}

// dedupFirst 按 Product 去重，保留先出现的（即优先级更高来源的）。
func (n *Fanout) dedupFirst(all []core.Recommendation) []core.Recommendation {
	if !n.Dedup {
		return all
	}
	seen := make(map[core.ProductID]struct{}, len(all))
	out := make([]core.Recommendation, 0, len(all))
	for _, rec := range all {
		if _, ok := seen[rec.Product]; ok {
			continue
		}
		seen[rec.Product] = struct{}{}
		out = append(out, rec)
	}
	return out
}
