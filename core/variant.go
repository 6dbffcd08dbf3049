package core

import (
	"github.com/rushteam/skillkit/pkg/conv"
)

// PredictionFromAny 把排序输入统一转换为 *Prediction。
//
// 支持：
//   - *Prediction / Prediction：直接使用
//   - map[string]any（通用反序列化得到的 mapping 形态）：解码为 Prediction；
//     mapping 中缺少 document_score 的文档取中性分数 1
//
// 其他类型返回 UNKNOWN_VARIANT 错误。
func PredictionFromAny(v any) (*Prediction, error) {
	switch val := v.(type) {
	case *Prediction:
		if val == nil {
			return nil, NewUnknownVariantError(v)
		}
		return val, nil
	case Prediction:
		return &val, nil
	}
	m, ok := conv.ToMap(v)
	if !ok {
		return nil, NewUnknownVariantError(v)
	}
	return predictionFromMap(m)
}

func predictionFromMap(m map[string]any) (*Prediction, error) {
	output, ok := conv.ToMap(m["prediction_output"])
	if !ok {
		return nil, NewUnknownVariantError(m)
	}
	if _, ok := conv.ToString(output["output"]); !ok {
		return nil, NewUnknownVariantError(m)
	}
	if _, ok := conv.ToFloat64(m["prediction_score"]); !ok {
		return nil, NewUnknownVariantError(m)
	}

	var p Prediction
	if err := conv.Decode(m, &p); err != nil {
		return nil, NewInvalidPayloadError("prediction", err.Error())
	}
	if docs, ok := conv.ToSlice(m["prediction_documents"]); ok {
		for i, d := range docs {
			doc, ok := conv.ToMap(d)
			if !ok || i >= len(p.PredictionDocuments) {
				continue
			}
			if _, has := doc["document_score"]; !has {
				p.PredictionDocuments[i].DocumentScore = defaultLeadDocumentScore
			}
		}
	}
	return &p, nil
}

// PredictionsFromAny 逐个转换排序输入，任一元素无法识别时整体失败。
func PredictionsFromAny(values []any) ([]*Prediction, error) {
	out := make([]*Prediction, 0, len(values))
	for _, v := range values {
		p, err := PredictionFromAny(v)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SortValues 转换并按排序策略稳定降序排列混合形态（typed / mapping）的预测。
func SortValues(values []any) ([]*Prediction, error) {
	preds, err := PredictionsFromAny(values)
	if err != nil {
		return nil, err
	}
	SortPredictions(preds)
	return preds, nil
}
