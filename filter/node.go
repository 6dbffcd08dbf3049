package filter

import (
	"context"
	"log/slog"

	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该预测就会被过滤掉。
type FilterNode struct {
	Filters []Filter

	// Logger 记录过滤器错误；为空时使用 Pipeline 注入的 logger
	Logger *slog.Logger
}

func (n *FilterNode) logger(ctx context.Context) *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return pipeline.LoggerFromContext(ctx)
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	q *core.Query,
	preds []*core.Prediction,
) ([]*core.Prediction, error) {
	if len(n.Filters) == 0 || len(preds) == 0 {
		return preds, nil
	}

	out := make([]*core.Prediction, 0, len(preds))
	for _, pred := range preds {
		if pred == nil {
			continue
		}

		shouldFilter := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, q, pred)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				n.logger(ctx).WarnContext(ctx, "filter error",
					slog.String("node", n.Name()),
					slog.String("filter", f.Name()),
					slog.String("error", err.Error()),
				)
				continue
			}
			if ok {
				shouldFilter = true
				break
			}
		}

		if !shouldFilter {
			out = append(out, pred)
		}
	}

	return out, nil
}

var _ pipeline.Node = (*FilterNode)(nil)
