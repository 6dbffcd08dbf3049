package core

import (
	"encoding/json"
	"fmt"
)

// Adversarial 是对抗样本的下标标注。存在时结果中的位置有语义，禁止重排。
type Adversarial struct {
	Indices []int `json:"indices"`
}

// QueryOutput 是一次查询的结果信封：有序的预测列表与可选的对抗标注。
//
// 不变式：Adversarial 为 nil 时，Predictions 在构造时已按排序策略降序排列；
// 否则保持转换策略产出的原始顺序。构造后视为不可变。
type QueryOutput struct {
	Predictions []*Prediction `json:"predictions"`
	Adversarial *Adversarial  `json:"adversarial"`
}

// NewQueryOutput 构造结果信封；adversarial 为 nil 时对 preds 做稳定降序排序。
func NewQueryOutput(preds []*Prediction, adversarial *Adversarial) *QueryOutput {
	if preds == nil {
		preds = []*Prediction{}
	}
	if adversarial == nil {
		SortPredictions(preds)
	}
	return &QueryOutput{Predictions: preds, Adversarial: adversarial}
}

// Len 返回预测数量。
func (o *QueryOutput) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Predictions)
}

// Top 返回排名第一的预测，没有预测时返回 nil。
func (o *QueryOutput) Top() *Prediction {
	if o.Len() == 0 {
		return nil
	}
	return o.Predictions[0]
}

// Ranked 表示结果是否经过排序（没有对抗标注）。
func (o *QueryOutput) Ranked() bool {
	return o != nil && o.Adversarial == nil
}

// ParseQueryOutput 以通用形式解析序列化的结果信封，把每条预测转为 Prediction 后重新应用排序策略。
func ParseQueryOutput(data []byte) (*QueryOutput, error) {
	var raw struct {
		Predictions []any        `json:"predictions"`
		Adversarial *Adversarial `json:"adversarial"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse query output: %w", err)
	}
	preds, err := PredictionsFromAny(raw.Predictions)
	if err != nil {
		return nil, err
	}
	return NewQueryOutput(preds, raw.Adversarial), nil
}
