// Package service 对接上游模型推理服务：按任务调用模型，返回原始 payload，
// 可选地用 core.Store 缓存 payload。
package service

import (
	"context"

	"github.com/rushteam/skillkit/core"
)

// Backend 是统一的模型推理服务接口，返回给转换策略使用的原始 payload。
//
// 使用示例：
//
//	backend := service.NewHTTPClient("http://localhost:8000", service.WithHTTPTimeout(10*time.Second))
//	payload, err := backend.Predict(ctx, &service.PredictRequest{
//	    ModelName: "bert-base-uncased",
//	    Task:      service.TaskSequenceClassification,
//	    Input:     []any{[]any{"question", "answer"}},
//	})
type Backend interface {
	// Predict 调用模型，返回原始 payload
	Predict(ctx context.Context, req *PredictRequest) (core.Payload, error)

	// Health 健康检查
	Health(ctx context.Context) error

	// Close 关闭连接
	Close() error
}

// 模型服务支持的任务（请求路径的最后一段）。
const (
	TaskSequenceClassification = "sequence-classification"
	TaskQuestionAnswering      = "question-answering"
	TaskGeneration             = "generation"
)

// PredictRequest 预测请求
type PredictRequest struct {
	// ModelName 模型名称
	ModelName string `json:"-"`

	// Task 任务，如 "sequence-classification"
	Task string `json:"-"`

	// Input 模型输入：问题与上下文/候选答案组成的对
	Input []any `json:"input"`

	// TaskKwargs 任务参数（可选），如 {"topk": 3}
	TaskKwargs map[string]any `json:"task_kwargs,omitempty"`

	// ModelKwargs 模型参数（可选）
	ModelKwargs map[string]any `json:"model_kwargs,omitempty"`

	// ExplainKwargs 可解释性参数（可选），如 {"method": "attention", "top_k": 10}
	ExplainKwargs map[string]any `json:"explain_kwargs,omitempty"`

	// AdversarialKwargs 对抗样本参数（可选）
	AdversarialKwargs map[string]any `json:"adversarial_kwargs,omitempty"`
}

// ServiceType 服务类型
type ServiceType string

const (
	ServiceTypeHTTP ServiceType = "http" // REST 模型服务
)

// ServiceConfig 服务配置
type ServiceConfig struct {
	// Type 服务类型，默认 http
	Type ServiceType `yaml:"type" json:"type"`

	// Endpoint 服务根地址，如 "http://localhost:8000"
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// Timeout 超时时间（秒）
	Timeout int `yaml:"timeout" json:"timeout"`

	// Auth 认证信息（可选）
	Auth *AuthConfig `yaml:"auth" json:"auth"`

	// CacheTTL payload 缓存时间（秒），0 表示不缓存
	CacheTTL int `yaml:"cache_ttl" json:"cache_ttl"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	Type     string `yaml:"type" json:"type"` // "basic", "bearer", "api_key"
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	Token    string `yaml:"token" json:"token"`
	APIKey   string `yaml:"api_key" json:"api_key"`
}
