package assemble

import (
	"context"

	"github.com/rushteam/skillkit/align"
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// SequenceClassificationWithGraph 与 SequenceClassification 相同地组装标量部分（按最短输入对齐），
// 并把 lm_subgraph / attn_subgraph 组成的推理子图挂到 labels[0] 指定的预测上。
// 其他预测没有解释，也不做解释对齐。
func SequenceClassificationWithGraph(q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	if q == nil {
		q = &core.Query{}
	}
	scores, err := decodeLogits(payload)
	if err != nil {
		return nil, err
	}
	questions, err := align.ResolveList(q.Questions, payload, keyQuestions, len(scores))
	if err != nil {
		return nil, err
	}
	label, err := decodeLabel(payload)
	if err != nil {
		return nil, err
	}
	adversarial, err := decodeAdversarial(payload)
	if err != nil {
		return nil, err
	}

	size := min(len(questions), len(scores), len(q.Answers))
	preds := make([]*core.Prediction, 0, size)
	for i := 0; i < size; i++ {
		p := core.NewPrediction(questions[i], q.Answers[i], scores[i], nil)
		if i == label {
			graph, err := decodeGraph(payload)
			if err != nil {
				return nil, err
			}
			p.Explanation = graph
		}
		preds = append(preds, p)
	}

	return core.NewQueryOutput(preds, adversarial), nil
}

// ClassificationGraph 是 SequenceClassificationWithGraph 的 pipeline.Assembler 实现。
type ClassificationGraph struct{}

func (ClassificationGraph) Name() string        { return "assemble.sequence_classification_with_graph" }
func (ClassificationGraph) Kind() pipeline.Kind { return pipeline.KindClassificationGraph }

func (ClassificationGraph) Assemble(
	_ context.Context,
	q *core.Query,
	payload core.Payload,
) (*core.QueryOutput, error) {
	return SequenceClassificationWithGraph(q, payload)
}

var _ pipeline.Assembler = ClassificationGraph{}
