package core

import (
	"encoding/json"
	"fmt"

	"github.com/rushteam/skillkit/pkg/conv"
)

// ExplanationKind 标记解释数据的形态。
type ExplanationKind string

const (
	ExplanationAttributions ExplanationKind = "attributions" // token 级特征归因
	ExplanationGraph        ExplanationKind = "graph"        // 推理子图
)

// Explanation 是挂在 Prediction 上的可解释性数据，只有两种实现：
// *Attributions（token 形态）与 *Graph（子图形态）。
// 一个 Prediction 至多持有一个 Explanation。
type Explanation interface {
	Kind() ExplanationKind
	sealed()
}

// TokenAttribution 是单个 token 的归因三元组，序列化为 [index, token, score]。
type TokenAttribution struct {
	Index int
	Token string
	Score float64
}

func (t TokenAttribution) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Index, t.Token, t.Score})
}

func (t *TokenAttribution) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("token attribution: expected [index, token, score], got %d items", len(raw))
	}
	idx, ok := conv.ToInt(raw[0])
	if !ok {
		return fmt.Errorf("token attribution: invalid index %v", raw[0])
	}
	score, ok := conv.ToFloat64(raw[2])
	if !ok {
		return fmt.Errorf("token attribution: invalid score %v", raw[2])
	}
	token, ok := conv.ToString(raw[1])
	if !ok {
		token = fmt.Sprint(raw[1])
	}
	*t = TokenAttribution{Index: idx, Token: token, Score: score}
	return nil
}

// Attributions 是问题与上下文的 token 级归因：top-k 下标与逐 token 的归因分数。
type Attributions struct {
	TopKQuestionIdx []int              `json:"topk_question_idx"`
	TopKContextIdx  []int              `json:"topk_context_idx"`
	QuestionTokens  []TokenAttribution `json:"question_tokens"`
	ContextTokens   []TokenAttribution `json:"context_tokens"`
}

func (*Attributions) Kind() ExplanationKind { return ExplanationAttributions }
func (*Attributions) sealed()               {}

// Node 是推理子图中的节点。
type Node struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	QNode   bool    `json:"q_node"`
	AnsNode bool    `json:"ans_node"`
	Weight  float64 `json:"weight"`
}

// Edge 是推理子图中的有向边。
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
	Label  string  `json:"label"`
}

// SubGraph 以 key -> Node / Edge 的形式保存子图。
type SubGraph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges map[string]Edge `json:"edges"`
}

// Graph 由两条推理路径组成：语言模型路径与注意力路径。
type Graph struct {
	LMSubgraph   SubGraph `json:"lm_subgraph"`
	AttnSubgraph SubGraph `json:"attn_subgraph"`
}

func (*Graph) Kind() ExplanationKind { return ExplanationGraph }
func (*Graph) sealed()               {}
