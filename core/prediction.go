package core

import (
	"encoding/json"
)

// Prediction 是一次查询下的单条预测：一个输出、支撑它的文档与可选的解释。
// PredictionScore 用于排序决策，通常与 PredictionOutput.OutputScore 相同。
type Prediction struct {
	Question            string
	PredictionScore     float64
	PredictionOutput    Output
	PredictionDocuments []Document
	// Explanation 为 nil、*Attributions 或 *Graph
	Explanation Explanation
}

// NewPrediction 创建 prediction_score 与 output_score 相同的预测。
func NewPrediction(question, output string, score float64, docs []Document) *Prediction {
	if docs == nil {
		docs = []Document{}
	}
	return &Prediction{
		Question:            question,
		PredictionScore:     score,
		PredictionOutput:    Output{Output: output, OutputScore: score},
		PredictionDocuments: docs,
	}
}

// Attributions 返回 token 形态的解释，不存在时返回 nil。
func (p *Prediction) Attributions() *Attributions {
	a, _ := p.Explanation.(*Attributions)
	return a
}

// Graph 返回子图形态的解释，不存在时返回 nil。
func (p *Prediction) Graph() *Graph {
	g, _ := p.Explanation.(*Graph)
	return g
}

// predictionJSON 是 Prediction 的线上格式：解释按形态分别落在
// prediction_graph 与 attributions 两个字段上，未使用的一侧为 null。
type predictionJSON struct {
	Question            string        `json:"question"`
	PredictionScore     float64       `json:"prediction_score"`
	PredictionOutput    Output        `json:"prediction_output"`
	PredictionDocuments []Document    `json:"prediction_documents"`
	PredictionGraph     *Graph        `json:"prediction_graph"`
	Attributions        *Attributions `json:"attributions"`
}

func (p Prediction) MarshalJSON() ([]byte, error) {
	out := predictionJSON{
		Question:            p.Question,
		PredictionScore:     p.PredictionScore,
		PredictionOutput:    p.PredictionOutput,
		PredictionDocuments: p.PredictionDocuments,
	}
	if out.PredictionDocuments == nil {
		out.PredictionDocuments = []Document{}
	}
	switch e := p.Explanation.(type) {
	case *Graph:
		out.PredictionGraph = e
	case *Attributions:
		out.Attributions = e
	}
	return json.Marshal(out)
}

func (p *Prediction) UnmarshalJSON(data []byte) error {
	var in predictionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.PredictionGraph != nil && in.Attributions != nil {
		return NewInvalidPayloadError("prediction", "both prediction_graph and attributions are set")
	}
	*p = Prediction{
		Question:            in.Question,
		PredictionScore:     in.PredictionScore,
		PredictionOutput:    in.PredictionOutput,
		PredictionDocuments: in.PredictionDocuments,
	}
	if p.PredictionDocuments == nil {
		p.PredictionDocuments = []Document{}
	}
	switch {
	case in.PredictionGraph != nil:
		p.Explanation = in.PredictionGraph
	case in.Attributions != nil:
		p.Explanation = in.Attributions
	}
	return nil
}
