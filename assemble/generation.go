package assemble

import (
	"context"

	"github.com/rushteam/skillkit/align"
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// generationScore 是生成结果的固定分数：自由文本生成没有原生的置信度。
const generationScore = 1.0

// Generation 把 generated_texts[0] 中的每个生成结果转为一条预测。
//
// 每条预测分数固定为 1，并附带一篇原样包裹上下文的文档（上下文为空也保留）。
// attributions 按位置对应，不足时补 nil，不按分数重排（所有分数相同）。
// q.ContextScore 目前不参与打分或排序。
func Generation(q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	if q == nil {
		q = &core.Query{}
	}
	texts, err := decodeGeneratedTexts(payload)
	if err != nil {
		return nil, err
	}
	n := len(texts)

	questions, err := align.ResolveList(q.Questions, payload, keyQuestions, n)
	if err != nil {
		return nil, err
	}
	if list, ok := q.Context.List(); ok && len(list) != n {
		return nil, core.NewShapeMismatchError(keyContext, len(list), n)
	}
	attributions, err := decodeAttributions(payload)
	if err != nil {
		return nil, err
	}
	if len(attributions) > n {
		return nil, core.NewShapeMismatchError(keyAttributions, len(attributions), n)
	}
	adversarial, err := decodeAdversarial(payload)
	if err != nil {
		return nil, err
	}

	preds := make([]*core.Prediction, 0, n)
	for i, text := range texts {
		docs := []core.Document{core.NewDocument(q.Context.At(i))}
		p := core.NewPrediction(questions[i], text, generationScore, docs)
		if a := at(attributions, i); a != nil {
			p.Explanation = a
		}
		preds = append(preds, p)
	}

	return core.NewQueryOutput(preds, adversarial), nil
}

// TextGeneration 是 Generation 的 pipeline.Assembler 实现。
type TextGeneration struct{}

func (TextGeneration) Name() string        { return "assemble.generation" }
func (TextGeneration) Kind() pipeline.Kind { return pipeline.KindGeneration }

func (TextGeneration) Assemble(
	_ context.Context,
	q *core.Query,
	payload core.Payload,
) (*core.QueryOutput, error) {
	return Generation(q, payload)
}

var _ pipeline.Assembler = TextGeneration{}
