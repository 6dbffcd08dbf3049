// Package assemble 实现四种转换策略：把模型服务的原始 payload 与查询上下文
// 组装为排好序的 core.QueryOutput。所有策略都是纯函数，可并发调用。
package assemble

import (
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pkg/conv"
)

// payload 中各任务使用的 key。
const (
	keyModelOutputs   = "model_outputs"
	keyLogits         = "logits"
	keyQuestions      = "questions"
	keyContext        = "context"
	keyAttributions   = "attributions"
	keyAdversarial    = "adversarial"
	keyLabels         = "labels"
	keyLMSubgraph     = "lm_subgraph"
	keyAttnSubgraph   = "attn_subgraph"
	keyAnswers        = "answers"
	keyGeneratedTexts = "generated_texts"
)

// candidate 是抽取式问答中单个候选答案。
type candidate struct {
	Answer string  `json:"answer"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
}

// firstRow 取 payload 中形如 [[...]] 的二维数组的第一行。
func firstRow(v any, key string) (any, error) {
	rows, ok := conv.ToSlice(v)
	if !ok {
		return nil, core.NewInvalidPayloadError(key, "expected a list")
	}
	if len(rows) == 0 {
		return nil, core.NewInvalidPayloadError(key, "empty list")
	}
	return rows[0], nil
}

// decodeLogits 读取 model_outputs.logits[0]，每个候选一个分数。
func decodeLogits(p core.Payload) ([]float64, error) {
	outputs, ok := conv.ToMap(p.Get(keyModelOutputs))
	if !ok {
		return nil, core.NewInvalidPayloadError(keyModelOutputs, "missing or not an object")
	}
	row, err := firstRow(outputs[keyLogits], keyModelOutputs+"."+keyLogits)
	if err != nil {
		return nil, err
	}
	scores, ok := conv.ToFloat64Slice(row)
	if !ok {
		return nil, core.NewInvalidPayloadError(keyModelOutputs+"."+keyLogits, "expected numbers")
	}
	return scores, nil
}

// decodeAdversarial 读取对抗标注：{"indices": [...]} 或直接的下标列表。不存在时返回 nil。
func decodeAdversarial(p core.Payload) (*core.Adversarial, error) {
	if !p.Has(keyAdversarial) {
		return nil, nil
	}
	v := p.Get(keyAdversarial)
	if m, ok := conv.ToMap(v); ok {
		adv := &core.Adversarial{}
		if raw, ok := m["indices"]; ok && raw != nil {
			indices, ok := conv.ToIntSlice(raw)
			if !ok {
				return nil, core.NewInvalidPayloadError(keyAdversarial+".indices", "expected integers")
			}
			adv.Indices = indices
		}
		return adv, nil
	}
	if indices, ok := conv.ToIntSlice(v); ok {
		return &core.Adversarial{Indices: indices}, nil
	}
	return nil, core.NewInvalidPayloadError(keyAdversarial, "expected an object or a list of indices")
}

// decodeAttributions 读取 token 形态的归因列表，空元素对应 nil。
func decodeAttributions(p core.Payload) ([]*core.Attributions, error) {
	if !p.Present(keyAttributions) {
		return nil, nil
	}
	raw, ok := conv.ToSlice(p.Get(keyAttributions))
	if !ok {
		return nil, core.NewInvalidPayloadError(keyAttributions, "expected a list")
	}
	out := make([]*core.Attributions, len(raw))
	for i, v := range raw {
		if !conv.Truthy(v) {
			continue
		}
		var a core.Attributions
		if err := conv.Decode(v, &a); err != nil {
			return nil, core.NewInvalidPayloadError(keyAttributions, err.Error())
		}
		out[i] = &a
	}
	return out, nil
}

// decodeLabel 读取 labels[0]，即被预测的类别下标。
func decodeLabel(p core.Payload) (int, error) {
	row, err := firstRow(p.Get(keyLabels), keyLabels)
	if err != nil {
		return 0, err
	}
	label, ok := conv.ToInt(row)
	if !ok {
		return 0, core.NewInvalidPayloadError(keyLabels, "expected an integer label")
	}
	return label, nil
}

// decodeGraph 读取语言模型子图与注意力子图。
func decodeGraph(p core.Payload) (*core.Graph, error) {
	g := &core.Graph{}
	for _, sub := range []struct {
		key string
		dst *core.SubGraph
	}{
		{keyLMSubgraph, &g.LMSubgraph},
		{keyAttnSubgraph, &g.AttnSubgraph},
	} {
		if !p.Has(sub.key) {
			return nil, core.NewInvalidPayloadError(sub.key, "missing subgraph")
		}
		if err := conv.Decode(p.Get(sub.key), sub.dst); err != nil {
			return nil, core.NewInvalidPayloadError(sub.key, err.Error())
		}
	}
	return g, nil
}

// decodeCandidates 读取抽取式问答的答案：每个 question/context 对一组候选。
func decodeCandidates(p core.Payload) ([][]candidate, error) {
	if !p.Has(keyAnswers) {
		return nil, core.NewInvalidPayloadError(keyAnswers, "missing")
	}
	var pairs [][]candidate
	if err := conv.Decode(p.Get(keyAnswers), &pairs); err != nil {
		return nil, core.NewInvalidPayloadError(keyAnswers, err.Error())
	}
	return pairs, nil
}

// decodePairAttribution 取第 pair 个上下文的归因：attributions[0][key][pair]。
// 任一 key 缺少该下标时视为没有归因。
func decodePairAttribution(p core.Payload, pair int) (*core.Attributions, error) {
	if !p.Present(keyAttributions) {
		return nil, nil
	}
	head, err := firstRow(p.Get(keyAttributions), keyAttributions)
	if err != nil {
		return nil, err
	}
	byKey, ok := conv.ToMap(head)
	if !ok {
		return nil, core.NewInvalidPayloadError(keyAttributions, "expected an object keyed by attribution field")
	}
	picked := make(map[string]any, len(byKey))
	for k, v := range byKey {
		perPair, ok := conv.ToSlice(v)
		if !ok {
			return nil, core.NewInvalidPayloadError(keyAttributions+"."+k, "expected a list per context")
		}
		if pair >= len(perPair) {
			return nil, nil
		}
		picked[k] = perPair[pair]
	}
	var a core.Attributions
	if err := conv.Decode(picked, &a); err != nil {
		return nil, core.NewInvalidPayloadError(keyAttributions, err.Error())
	}
	return &a, nil
}

// decodeGeneratedTexts 读取 generated_texts[0]。
func decodeGeneratedTexts(p core.Payload) ([]string, error) {
	row, err := firstRow(p.Get(keyGeneratedTexts), keyGeneratedTexts)
	if err != nil {
		return nil, err
	}
	texts, ok := conv.ToStringSlice(row)
	if !ok {
		return nil, core.NewInvalidPayloadError(keyGeneratedTexts, "expected strings")
	}
	return texts, nil
}

// at 返回 s[i]，越界时返回零值（对应按最长输入补齐时的缺省值）。
func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}
