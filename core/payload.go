package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rushteam/skillkit/pkg/conv"
)

// Payload 是模型服务返回的原始输出，key 与结构随任务类型变化（logits、answers、
// generated_texts、attributions、adversarial 等），在边界处不做类型约束。
type Payload map[string]any

// ParsePayload 从 JSON 解析 payload。
func ParsePayload(data []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	if p == nil {
		p = Payload{}
	}
	return p, nil
}

// Has 判断 key 是否存在且值不为 nil。
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Present 判断 key 是否存在且非空（空字符串、空列表、0 均视为不存在）。
func (p Payload) Present(key string) bool {
	v, ok := p[key]
	return ok && conv.Truthy(v)
}

// Get 返回 key 对应的原始值。
func (p Payload) Get(key string) any {
	return p[key]
}
