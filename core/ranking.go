package core

import (
	"math"
	"sort"
)

// NoAnswerFound 是“没有找到答案”的规范输出。
const NoAnswerFound = "No answer found."

// defaultLeadDocumentScore 是没有文档时使用的文档分数。
const defaultLeadDocumentScore = 1.0

// SortKey 是预测的复合排序键，按 (AnswerFound, Score, DocumentScore) 字典序比较，降序排列。
type SortKey struct {
	AnswerFound   bool
	Score         float64
	DocumentScore float64
}

// Less 按字典序比较两个键（false < true）。NaN 分数小于任何其他分数，两个 NaN 视为相等。
func (k SortKey) Less(o SortKey) bool {
	if k.AnswerFound != o.AnswerFound {
		return !k.AnswerFound
	}
	if scoreLess(k.Score, o.Score) {
		return true
	}
	if scoreLess(o.Score, k.Score) {
		return false
	}
	return scoreLess(k.DocumentScore, o.DocumentScore)
}

func scoreLess(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}

// IsNoAnswer 判断输出是否表示“没有答案”。
func IsNoAnswer(output string) bool {
	return output == "" || output == NoAnswerFound
}

// AnswerFound 输出既不为空也不是 NoAnswerFound 时返回 true。
func (p *Prediction) AnswerFound() bool {
	return !IsNoAnswer(p.PredictionOutput.Output)
}

// LeadDocumentScore 返回第一篇文档的分数；没有文档时返回 1。
func (p *Prediction) LeadDocumentScore() float64 {
	if len(p.PredictionDocuments) == 0 {
		return defaultLeadDocumentScore
	}
	return p.PredictionDocuments[0].DocumentScore
}

// SortKey 返回预测的排序键。
func (p *Prediction) SortKey() SortKey {
	return SortKey{
		AnswerFound:   p.AnswerFound(),
		Score:         p.PredictionScore,
		DocumentScore: p.LeadDocumentScore(),
	}
}

// SortPredictions 按排序键降序稳定排序（原地）。键相同的预测保持输入中的相对顺序；nil 排在最后。
func SortPredictions(preds []*Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i] == nil {
			return false
		}
		if preds[j] == nil {
			return true
		}
		return preds[j].SortKey().Less(preds[i].SortKey())
	})
}
