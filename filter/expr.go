package filter

import (
	"context"
	"errors"

	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤预测：表达式求值为 true 的预测被移除。
//
// 示例：
//   - `prediction.score < 0.1`
//   - `!prediction.answer_found`
//   - `size(prediction.documents) == 0`
type ExprFilter struct {
	program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤器。表达式不能为空。
func NewExprFilter(expr string) (*ExprFilter, error) {
	if expr == "" {
		return nil, errors.New("expr filter: expression is required")
	}
	program, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{program: program}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(_ context.Context, _ *core.Query, pred *core.Prediction) (bool, error) {
	if f.program == nil {
		return false, errors.New("expr filter: not compiled")
	}
	return f.program.Evaluate(pred)
}
