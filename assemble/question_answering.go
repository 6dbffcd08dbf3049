package assemble

import (
	"context"

	"github.com/rushteam/skillkit/align"
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// QuestionAnswering 把抽取式问答的答案片段转为结果信封。
//
// payload：
//   - answers：每个 question/context 对一组候选 {answer, start, end, score}
//   - questions（可选）：覆盖调用方的问题
//   - attributions（可选）：attributions[0][field][pair]，只挂到每组得分最高的候选上
//   - adversarial（可选）：对抗下标，存在时不排序
//
// 空答案替换为 core.NoAnswerFound；上下文为空时不附带文档。
func QuestionAnswering(q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	if q == nil {
		q = &core.Query{}
	}
	pairs, err := decodeCandidates(payload)
	if err != nil {
		return nil, err
	}
	n := len(pairs)

	questions, err := align.ResolveList(q.Questions, payload, keyQuestions, n)
	if err != nil {
		return nil, err
	}
	if list, ok := q.Context.List(); ok && len(list) != n {
		return nil, core.NewShapeMismatchError(keyContext, len(list), n)
	}
	adversarial, err := decodeAdversarial(payload)
	if err != nil {
		return nil, err
	}

	var preds []*core.Prediction
	for i, candidates := range pairs {
		if len(candidates) == 0 {
			continue
		}
		contextText := q.Context.At(i)
		contextScore, err := q.ContextScore.At(i, n)
		if err != nil {
			return nil, err
		}
		attribution, err := decodePairAttribution(payload, i)
		if err != nil {
			return nil, err
		}
		top := topCandidate(candidates)

		for j, c := range candidates {
			answer := c.Answer
			if answer == "" {
				answer = core.NoAnswerFound
			}
			// 目前每个答案只支持一篇文档
			docs := []core.Document{}
			if contextText != "" {
				docs = append(docs, core.Document{
					Document:      contextText,
					Span:          core.NewSpan(c.Start, c.End),
					DocumentScore: contextScore,
				})
			}
			p := core.NewPrediction(questions[i], answer, c.Score, docs)
			if j == top && attribution != nil {
				p.Explanation = attribution
			}
			preds = append(preds, p)
		}
	}

	return core.NewQueryOutput(preds, adversarial), nil
}

// topCandidate 返回分数最高的候选下标，分数相同时取第一个。
func topCandidate(candidates []candidate) int {
	top := 0
	for i, c := range candidates {
		if c.Score > candidates[top].Score {
			top = i
		}
	}
	return top
}

// ExtractiveQA 是 QuestionAnswering 的 pipeline.Assembler 实现。
type ExtractiveQA struct{}

func (ExtractiveQA) Name() string        { return "assemble.question_answering" }
func (ExtractiveQA) Kind() pipeline.Kind { return pipeline.KindQuestionAnswering }

func (ExtractiveQA) Assemble(
	_ context.Context,
	q *core.Query,
	payload core.Payload,
) (*core.QueryOutput, error) {
	return QuestionAnswering(q, payload)
}

var _ pipeline.Assembler = ExtractiveQA{}
