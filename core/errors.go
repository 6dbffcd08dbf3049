package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - 对齐错误：SHAPE_MISMATCH, UNSUPPORTED_TYPE
//   - 排序错误：UNKNOWN_VARIANT
//   - Payload 错误：INVALID_INPUT
//   - Store / Service 错误：NOT_FOUND, UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "SHAPE_MISMATCH"）
	Message string // 错误消息
	Module  string // 模块名称（如 "align", "rank", "payload"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeShapeMismatch   = "SHAPE_MISMATCH"   // 列表长度与预期的预测数不一致
	ErrorCodeUnsupportedType = "UNSUPPORTED_TYPE" // 覆盖值不是 none / string / []string
	ErrorCodeUnknownVariant  = "UNKNOWN_VARIANT"  // 排序输入既不是 Prediction 也不是 mapping
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 模型 payload 缺字段或类型不符
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeUnavailable     = "UNAVAILABLE"      // 服务不可用
)

// 模块名称常量
const (
	ModuleAlign    = "align"    // 对齐模块
	ModuleRank     = "rank"     // 排序模块
	ModulePayload  = "payload"  // 模型输出解析
	ModuleStore    = "store"    // 存储模块
	ModuleService  = "service"  // 推理服务模块
	ModulePipeline = "pipeline" // 编排模块
)

// NewShapeMismatchError 描述 field 的长度 got 与预期 want 不一致。
func NewShapeMismatchError(field string, got, want int) *DomainError {
	return NewDomainError(ModuleAlign, ErrorCodeShapeMismatch,
		fmt.Sprintf("align: %s has length %d, expected %d", field, got, want))
}

// NewUnsupportedTypeError 描述 field 的值类型不在 {none, string, []string} 之内。
func NewUnsupportedTypeError(field string, v any) *DomainError {
	return NewDomainError(ModuleAlign, ErrorCodeUnsupportedType,
		fmt.Sprintf("align: unsupported type %T for %s", v, field))
}

// NewUnknownVariantError 描述无法识别为预测记录的排序输入。
func NewUnknownVariantError(v any) *DomainError {
	return NewDomainError(ModuleRank, ErrorCodeUnknownVariant,
		fmt.Sprintf("rank: unknown prediction variant %T", v))
}

// NewInvalidPayloadError 描述模型 payload 中缺失或格式错误的 key。
func NewInvalidPayloadError(key, reason string) *DomainError {
	return NewDomainError(ModulePayload, ErrorCodeInvalidInput,
		fmt.Sprintf("payload: %s: %s", key, reason))
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsShapeMismatch 检查错误是否为 SHAPE_MISMATCH
func IsShapeMismatch(err error) bool { return hasCode(err, ErrorCodeShapeMismatch) }

// IsUnsupportedType 检查错误是否为 UNSUPPORTED_TYPE
func IsUnsupportedType(err error) bool { return hasCode(err, ErrorCodeUnsupportedType) }

// IsUnknownVariant 检查错误是否为 UNKNOWN_VARIANT
func IsUnknownVariant(err error) bool { return hasCode(err, ErrorCodeUnknownVariant) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }
