package filter

import (
	"context"

	"github.com/rushteam/skillkit/core"
)

// NoAnswerFilter 移除“没有找到答案”的预测（输出为空或为 core.NoAnswerFound）。
type NoAnswerFilter struct{}

func (NoAnswerFilter) Name() string {
	return "filter.no_answer"
}

func (NoAnswerFilter) ShouldFilter(_ context.Context, _ *core.Query, pred *core.Prediction) (bool, error) {
	return pred == nil || !pred.AnswerFound(), nil
}
