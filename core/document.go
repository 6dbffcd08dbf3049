package core

// Span 是文档内被引用片段的字符区间 [start, end]。
type Span [2]int

// NewSpan 创建字符区间。
func NewSpan(start, end int) *Span {
	return &Span{start, end}
}

func (s Span) Start() int { return s[0] }
func (s Span) End() int   { return s[1] }

// Document 是一条预测所依据的证据文档（源文本、来源信息、可选片段与检索分数）。
// 构造后不再修改，归属于列出它的 Prediction。
type Document struct {
	// Index 文档来自哪个索引 / 文档库
	Index string `json:"index"`
	// DocumentID 文档在索引中的 ID
	DocumentID string `json:"document_id"`
	// Document 文档正文（必填）
	Document string `json:"document"`
	// Span 被使用片段的起止字符位置（可选）
	Span *Span `json:"span"`
	URL  string `json:"url"`
	// Source 文档来源（如果有）
	Source string `json:"source"`
	// DocumentScore 检索阶段给文档的分数，默认 0
	DocumentScore float64 `json:"document_score"`
}

// NewDocument 用正文创建文档，其余字段取默认值。
func NewDocument(text string) Document {
	return Document{Document: text}
}

// Output 是模型的原始输出（答案 / 论点 / 标签）及其分数。
type Output struct {
	Output      string  `json:"output"`
	OutputScore float64 `json:"output_score"`
}
