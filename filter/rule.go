package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// Rule 是基于 CEL 表达式的业务规则过滤器。
// 表达式描述"保留"条件：求值为 false 的候选被过滤。
//
// 示例：
//   - `rec.score > 0.3`
//   - `rec.source != "recall.trending" || rec.score >= 100.0`
//   - `rctx.scene == "homepage" ? rec.score > 0.5 : true`
type Rule struct {
	expr string
	prg  *dsl.Program
}

// NewRule 编译表达式并创建规则过滤器。语法错误在此处暴露。
func NewRule(expr string) (*Rule, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Rule{expr: expr, prg: prg}, nil
}

func (f *Rule) Name() string { return "filter.rule" }

func (f *Rule) ShouldFilter(_ context.Context, rctx *core.RecommendContext, rec core.Recommendation) (bool, error) {
	keep, err := f.prg.Eval(rec, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
