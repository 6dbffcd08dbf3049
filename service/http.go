package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rushteam/skillkit/core"
)

// HTTPClient 是 REST 模型服务的客户端实现，返回模型的原始输出 payload。
//
//   - Predict: POST {endpoint}/api/{model_name}/{task}
//   - 请求：{"input": [...], "task_kwargs": {...}, "model_kwargs": {...}, "explain_kwargs": {...}, "adversarial_kwargs": {...}}
//   - 响应：任务相关的 JSON 对象（model_outputs / answers / generated_texts / attributions / adversarial ...）
//   - Health: GET {endpoint}/health/heartbeat
type HTTPClient struct {
	// Endpoint 服务根地址，如 "http://localhost:8000"
	Endpoint string
	// Timeout 请求超时
	Timeout time.Duration
	// Auth 认证配置
	Auth *AuthConfig
	// httpClient 自定义 HTTP 客户端（可选）
	httpClient *http.Client
}

// NewHTTPClient 创建客户端。endpoint 为根地址（如 http://localhost:8000）。
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		Endpoint: strings.TrimRight(endpoint, "/"),
		Timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Timeout}
	}
	return c
}

// HTTPOption 配置 HTTP 客户端
type HTTPOption func(*HTTPClient)

// WithHTTPTimeout 设置超时
func WithHTTPTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.Timeout = timeout
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPAuth 设置认证
func WithHTTPAuth(auth *AuthConfig) HTTPOption {
	return func(c *HTTPClient) {
		c.Auth = auth
	}
}

// WithHTTPClient 设置自定义 HTTP 客户端
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// Predict 实现 Backend。
func (c *HTTPClient) Predict(ctx context.Context, req *PredictRequest) (core.Payload, error) {
	if req == nil || req.ModelName == "" || req.Task == "" {
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInvalidInput,
			"service: model name and task are required")
	}
	url := fmt.Sprintf("%s/api/%s/%s", c.Endpoint, req.ModelName, req.Task)

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("service marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("service create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.addAuth(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, newUnavailableError("request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("service read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, newUnavailableError("status=%d, body=%s", resp.StatusCode, string(bodyBytes))
		}
		return nil, fmt.Errorf("service error: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}

	payload, err := core.ParsePayload(bodyBytes)
	if err != nil {
		return nil, core.NewInvalidPayloadError("response", err.Error())
	}
	return payload, nil
}

// Health 实现 Backend，使用 GET /health/heartbeat。
func (c *HTTPClient) Health(ctx context.Context) error {
	url := c.Endpoint + "/health/heartbeat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("service health create request: %w", err)
	}
	c.addAuth(httpReq)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return newUnavailableError("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return newUnavailableError("health failed: status=%d, body=%s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

// Close 实现 Backend。
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) addAuth(req *http.Request) {
	if c.Auth == nil {
		return
	}
	switch c.Auth.Type {
	case "basic":
		req.SetBasicAuth(c.Auth.Username, c.Auth.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+c.Auth.Token)
	case "api_key":
		req.Header.Set("X-API-Key", c.Auth.APIKey)
	}
}

func newUnavailableError(format string, args ...any) *core.DomainError {
	return core.NewDomainError(core.ModuleService, core.ErrorCodeUnavailable,
		"service: "+fmt.Sprintf(format, args...))
}

var _ Backend = (*HTTPClient)(nil)
