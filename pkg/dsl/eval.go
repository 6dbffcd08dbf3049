package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/skillkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("prediction", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的预测过滤表达式，使用 CEL (Common Expression Language) 实现。
// 编译一次，可在多个 goroutine 中对不同预测重复求值。
//
// 表达式中可用的变量都挂在 prediction 下：
//   - prediction.question / prediction.output：字符串
//   - prediction.score / prediction.output_score：预测分数与输出分数
//   - prediction.answer_found：输出既不为空也不是 "No answer found."
//   - prediction.document_score：第一篇文档的分数，没有文档时为 1
//   - prediction.documents：文档列表，元素含 document / document_score / index / url 等
//   - prediction.has_explanation：是否带有解释
//
// 示例：
//   - `prediction.answer_found && prediction.score > 0.5`
//   - `prediction.output.contains("Paris")`
//   - `size(prediction.documents) > 0 && prediction.document_score >= 0.3`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。空表达式恒为 true。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return &Program{}, nil
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Evaluate 对单条预测求值，返回布尔结果。
// 注意：访问不存在的 key 会报错，文档字段请先用 size(prediction.documents) 判断。
func (p *Program) Evaluate(pred *core.Prediction) (bool, error) {
	if p.prg == nil {
		return true, nil
	}
	if pred == nil {
		return false, nil
	}
	out, _, err := p.prg.Eval(map[string]any{"prediction": buildInput(pred)})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(pred *core.Prediction) map[string]any {
	docs := make([]any, 0, len(pred.PredictionDocuments))
	for _, d := range pred.PredictionDocuments {
		doc := map[string]any{
			"index":          d.Index,
			"document_id":    d.DocumentID,
			"document":       d.Document,
			"url":            d.URL,
			"source":         d.Source,
			"document_score": d.DocumentScore,
		}
		if d.Span != nil {
			doc["span"] = []any{int64(d.Span.Start()), int64(d.Span.End())}
		}
		docs = append(docs, doc)
	}
	return map[string]any{
		"question":        pred.Question,
		"score":           pred.PredictionScore,
		"output":          pred.PredictionOutput.Output,
		"output_score":    pred.PredictionOutput.OutputScore,
		"answer_found":    pred.AnswerFound(),
		"documents":       docs,
		"document_score":  pred.LeadDocumentScore(),
		"has_explanation": pred.Explanation != nil,
	}
}
