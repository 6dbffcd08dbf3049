package core

import (
	"encoding/json"
	"fmt"

	"github.com/rushteam/skillkit/pkg/conv"
)

// Query 承载调用方的查询上下文，随模型 payload 一起传给转换策略。
type Query struct {
	// Questions 提问（单个或每条预测一个）
	Questions TextSpec `json:"questions"`

	// Answers 分类任务的候选答案 / 标签，与 logits 同序
	Answers []string `json:"answers,omitempty"`

	// Context 上下文：无、单个字符串或与预测一一对应的列表
	Context TextSpec `json:"context"`

	// ContextScore 上下文的检索分数（抽取式问答使用；生成任务只接收不使用）
	ContextScore ScoreSpec `json:"context_score"`
}

// TextKind 标记 TextSpec 的形态。
type TextKind int

const (
	TextNone   TextKind = iota // 未提供
	TextSingle                 // 单个字符串
	TextList                   // 字符串列表
)

// TextSpec 是 “无 / 单个字符串 / 字符串列表” 三选一的值。
type TextSpec struct {
	kind   TextKind
	single string
	list   []string
}

// NoText 返回空值。
func NoText() TextSpec { return TextSpec{} }

// Text 返回单个字符串。
func Text(s string) TextSpec { return TextSpec{kind: TextSingle, single: s} }

// Texts 返回字符串列表。
func Texts(list ...string) TextSpec {
	if list == nil {
		list = []string{}
	}
	return TextSpec{kind: TextList, list: list}
}

// ParseTextSpec 把非类型化的值解析为 TextSpec：nil、string、同构字符串列表之外的类型返回 UNSUPPORTED_TYPE。
func ParseTextSpec(field string, v any) (TextSpec, error) {
	switch val := v.(type) {
	case nil:
		return NoText(), nil
	case TextSpec:
		return val, nil
	case string:
		return Text(val), nil
	}
	if list, ok := conv.ToStringSlice(v); ok {
		return Texts(list...), nil
	}
	return TextSpec{}, NewUnsupportedTypeError(field, v)
}

func (t TextSpec) Kind() TextKind { return t.kind }
func (t TextSpec) IsNone() bool   { return t.kind == TextNone }

// Single 返回单个字符串形态的值。
func (t TextSpec) Single() (string, bool) {
	return t.single, t.kind == TextSingle
}

// List 返回列表形态的值。
func (t TextSpec) List() ([]string, bool) {
	return t.list, t.kind == TextList
}

// Broadcast 把单个字符串重复 n 次变为列表；列表与空值原样返回。
func (t TextSpec) Broadcast(n int) TextSpec {
	if t.kind != TextSingle {
		return t
	}
	list := make([]string, n)
	for i := range list {
		list[i] = t.single
	}
	return Texts(list...)
}

// At 返回列表的第 i 项；单个字符串对任意 i 返回自身；空值或越界返回 ""。
func (t TextSpec) At(i int) string {
	switch t.kind {
	case TextSingle:
		return t.single
	case TextList:
		if i >= 0 && i < len(t.list) {
			return t.list[i]
		}
	}
	return ""
}

func (t TextSpec) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case TextSingle:
		return json.Marshal(t.single)
	case TextList:
		return json.Marshal(t.list)
	default:
		return []byte("null"), nil
	}
}

func (t *TextSpec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec, err := ParseTextSpec("text", raw)
	if err != nil {
		return err
	}
	*t = spec
	return nil
}

// ScoreSpec 是 “无 / 单个分数 / 分数列表” 三选一的值。
type ScoreSpec struct {
	set    bool
	scalar float64
	list   []float64
	isList bool
}

// NoScore 返回空值。
func NoScore() ScoreSpec { return ScoreSpec{} }

// Score 返回单个分数。
func Score(f float64) ScoreSpec { return ScoreSpec{set: true, scalar: f} }

// Scores 返回分数列表。
func Scores(list ...float64) ScoreSpec {
	if list == nil {
		list = []float64{}
	}
	return ScoreSpec{set: true, list: list, isList: true}
}

// ParseScoreSpec 把非类型化的值解析为 ScoreSpec。
func ParseScoreSpec(field string, v any) (ScoreSpec, error) {
	if v == nil {
		return NoScore(), nil
	}
	if s, ok := v.(ScoreSpec); ok {
		return s, nil
	}
	if f, ok := conv.ToFloat64(v); ok {
		return Score(f), nil
	}
	if list, ok := conv.ToFloat64Slice(v); ok {
		return Scores(list...), nil
	}
	return ScoreSpec{}, NewUnsupportedTypeError(field, v)
}

func (s ScoreSpec) IsNone() bool { return !s.set }

// At 返回第 i 个（共 n 个）上下文的分数：空值为 1，单值对所有上下文相同，
// 列表要求长度等于 n。
func (s ScoreSpec) At(i, n int) (float64, error) {
	switch {
	case !s.set:
		return defaultLeadDocumentScore, nil
	case !s.isList:
		return s.scalar, nil
	case len(s.list) != n:
		return 0, NewShapeMismatchError("context_score", len(s.list), n)
	case i < 0 || i >= n:
		return 0, fmt.Errorf("context_score: index %d out of range [0,%d)", i, n)
	default:
		return s.list[i], nil
	}
}

func (s ScoreSpec) MarshalJSON() ([]byte, error) {
	switch {
	case !s.set:
		return []byte("null"), nil
	case s.isList:
		return json.Marshal(s.list)
	default:
		return json.Marshal(s.scalar)
	}
}

func (s *ScoreSpec) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	spec, err := ParseScoreSpec("context_score", raw)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}
