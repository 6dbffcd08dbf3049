// Package skillkit 把模型推理服务的原始输出归一化为统一的结果信封（QueryOutput）。
//
// 设计要点：
// - Strategy-first: 每种任务（序列分类、带推理子图的序列分类、抽取式问答、文本生成）一个纯函数转换策略
// - Rank-once: 信封构造时按 (answer_found, prediction_score, lead_document_score) 稳定降序排序；带对抗标注时保持原序
// - Node 可扩展: 组装之后可串联过滤 / 截断 / 去重等 Node，由 YAML 配置驱动
package skillkit

import (
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
)

// 轻量 facade：便于用户直接 import "skillkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Assembler = pipeline.Assembler
type Node = pipeline.Node
type Kind = pipeline.Kind

type Query = core.Query
type Payload = core.Payload
type Prediction = core.Prediction
type QueryOutput = core.QueryOutput

const (
	KindClassification      = pipeline.KindClassification
	KindClassificationGraph = pipeline.KindClassificationGraph
	KindQuestionAnswering   = pipeline.KindQuestionAnswering
	KindGeneration          = pipeline.KindGeneration
	KindFilter              = pipeline.KindFilter
	KindReRank              = pipeline.KindReRank
)

// NoAnswerFound 是“没有找到答案”的规范输出。
const NoAnswerFound = core.NoAnswerFound
