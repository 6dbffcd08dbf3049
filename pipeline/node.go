package pipeline

import (
	"context"

	"github.com/rushteam/skillkit/core"
)

// Kind 用于标记 Assembler / Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindClassification      Kind = "sequence_classification"            // 序列分类：logits → 候选标签
	KindClassificationGraph Kind = "sequence_classification_with_graph" // 序列分类 + 推理子图
	KindQuestionAnswering   Kind = "question_answering"                 // 抽取式问答：答案片段
	KindGeneration          Kind = "generation"                         // 文本生成
	KindFilter              Kind = "filter"                             // 过滤阶段：剔除不需要的预测
	KindReRank              Kind = "rerank"                             // 重排阶段：截断 / 去重，不改变相对顺序
)

// Assembler 把模型服务的原始 payload 与查询上下文转换为排好序的结果信封。
// 实现必须是纯函数：不做 I/O，不持有可变状态，可并发调用。
type Assembler interface {
	Name() string
	Kind() Kind

	Assemble(
		ctx context.Context,
		q *core.Query,
		payload core.Payload,
	) (*core.QueryOutput, error)
}

// Node 是组装之后的后处理单元，统一采用“输入 predictions -> 输出 predictions”的形态。
// Node 只能删除或截断预测，不能改变剩余预测的相对顺序。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		q *core.Query,
		preds []*core.Prediction,
	) ([]*core.Prediction, error)
}
