// Package rerank 提供组装之后的重排节点：Top-N 截断与按输出去重。
// 节点只删除预测，不改变剩余预测的相对顺序。
package rerank

import (
	"context"

	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，在排序后截取前 N 条预测。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Assembler: assemble.ExtractiveQA{},
//	    Nodes: []pipeline.Node{
//	        &filter.FilterNode{Filters: []filter.Filter{filter.NoAnswerFilter{}}},
//	        &rerank.DedupNode{},      // 相同答案只保留排名最高的一条
//	        &rerank.TopNNode{N: 3},   // 截取 Top 3
//	    },
//	}
type TopNNode struct {
	// N 要保留的预测数量
	// 如果 N <= 0，则返回所有预测（不截断）
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.Query,
	preds []*core.Prediction,
) ([]*core.Prediction, error) {
	if n.N <= 0 || len(preds) <= n.N {
		return preds, nil
	}
	return preds[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
