// Package dsl 提供基于 CEL (Common Expression Language) 的推荐结果规则求值。
//
// 表达式语法（CEL 标准语法）：
//   - 数值：rec.score > 0.7 / rec.score >= 0.5
//   - 商品：rec.product in [1001, 1002]
//   - 来源：rec.source == "recall.copurchase"
//   - 场景：rctx.scene == "homepage" && rec.score > 0.3
//
// 表达式在 Compile 时编译一次并缓存为 Program，之后可被并发复用。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("rec", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的布尔规则，可跨 goroutine 并发求值。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。语法或类型错误在此处暴露，而不是求值时。
// 空表达式编译为恒真规则。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{expr: expr}, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Eval 对单条推荐结果求值，返回布尔结果。
// 表达式必须返回 bool，否则报错。
func (p *Program) Eval(rec core.Recommendation, rctx *core.RecommendContext) (bool, error) {
	if p.prg == nil {
		return true, nil
	}

	out, _, err := p.prg.Eval(buildInput(rec, rctx))
	if err != nil {
		// 访问不存在的 key 时 CEL 会报错；
		// 应使用 rctx.params.key != null 检查存在性，而不是直接访问
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(rec core.Recommendation, rctx *core.RecommendContext) map[string]any {
	recMap := map[string]any{
		"product": int64(rec.Product),
		"score":   rec.Score,
		"source":  rec.Source,
	}

	rctxMap := map[string]any{}
	if rctx != nil {
		params := map[string]any{}
		for k, v := range rctx.Params {
			params[k] = v
		}
		rctxMap["user"] = string(rctx.User)
		rctxMap["scene"] = rctx.Scene
		rctxMap["params"] = params
	}

	return map[string]any{
		"rec":  recMap,
		"rctx": rctxMap,
	}
}
