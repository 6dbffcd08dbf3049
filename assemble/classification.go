package assemble

import (
	"context"

	"github.com/rushteam/skillkit/align"
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// SequenceClassification 把序列分类的 logits 转为结果信封。
//
// payload：
//   - model_outputs.logits[0]：每个候选答案一个分数，与 q.Answers 同序
//   - questions / context（可选）：覆盖调用方的值
//   - attributions（可选）：按分数排名给出的 token 归因，可能少于候选数
//   - adversarial（可选）：对抗下标，存在时不排序
//
// 各列表按最长者补齐，缺失位置取零值（空问题、0 分、空答案、无文档、无解释）。
func SequenceClassification(q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	if q == nil {
		q = &core.Query{}
	}
	scores, err := decodeLogits(payload)
	if err != nil {
		return nil, err
	}
	n := len(scores)

	questions, err := align.ResolveList(q.Questions, payload, keyQuestions, n)
	if err != nil {
		return nil, err
	}
	contexts, err := align.Resolve(q.Context, payload, keyContext, n)
	if err != nil {
		return nil, err
	}
	// TODO: Query 暴露 datastore 检索结果后，带出 index / document_id / url 等文档字段
	docs, err := align.Documents(len(q.Answers), contexts)
	if err != nil {
		return nil, err
	}

	attributions, err := decodeAttributions(payload)
	if err != nil {
		return nil, err
	}
	attributions, err = align.ToScores(scores, attributions, nil)
	if err != nil {
		return nil, err
	}

	adversarial, err := decodeAdversarial(payload)
	if err != nil {
		return nil, err
	}

	size := max(len(questions), len(scores), len(q.Answers), len(docs), len(attributions))
	preds := make([]*core.Prediction, 0, size)
	for i := 0; i < size; i++ {
		p := core.NewPrediction(at(questions, i), at(q.Answers, i), at(scores, i), at(docs, i))
		if a := at(attributions, i); a != nil {
			p.Explanation = a
		}
		preds = append(preds, p)
	}

	return core.NewQueryOutput(preds, adversarial), nil
}

// Classification 是 SequenceClassification 的 pipeline.Assembler 实现。
type Classification struct{}

func (Classification) Name() string        { return "assemble.sequence_classification" }
func (Classification) Kind() pipeline.Kind { return pipeline.KindClassification }

func (Classification) Assemble(
	_ context.Context,
	q *core.Query,
	payload core.Payload,
) (*core.QueryOutput, error) {
	return SequenceClassification(q, payload)
}

var _ pipeline.Assembler = Classification{}
