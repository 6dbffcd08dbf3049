package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// DedupNode 按输出文本去重，保留首次出现（即排名最高）的预测。
// 抽取式问答在多个上下文中找到同一答案时常用。
type DedupNode struct {
	// IgnoreCase 比较时忽略大小写与首尾空白
	IgnoreCase bool
}

func (n *DedupNode) Name() string {
	return "rerank.dedup"
}

func (n *DedupNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DedupNode) Process(
	_ context.Context,
	_ *core.Query,
	preds []*core.Prediction,
) ([]*core.Prediction, error) {
	if len(preds) == 0 {
		return preds, nil
	}

	seen := make(map[string]bool, len(preds))
	out := make([]*core.Prediction, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		key := p.PredictionOutput.Output
		if n.IgnoreCase {
			key = strings.ToLower(strings.TrimSpace(key))
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out, nil
}

var _ pipeline.Node = (*DedupNode)(nil)
