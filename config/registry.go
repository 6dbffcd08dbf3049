package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/skillkit/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/skillkit/config/builders"
// 以触发内置 Assembler（question_answering、generation 等）与 Node（filter、rerank.topn 等）的 init 注册。

// NodeBuilder 与 pipeline.NodeBuilder 一致：根据 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder = pipeline.NodeBuilder

// AssemblerBuilder 与 pipeline.AssemblerBuilder 一致。
type AssemblerBuilder = pipeline.AssemblerBuilder

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultAssemblers = make(map[string]AssemblerBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 DefaultFactory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rerank.topn", BuildTopNNode) }
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// RegisterAssembler 注册一种转换策略，name 通常为任务类型（pipeline.Kind）。
func RegisterAssembler(name string, builder AssemblerBuilder) {
	if name == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultAssemblers[name] = builder
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	return sortedKeys(defaultBuilders)
}

// SupportedAssemblers 返回当前已注册的转换策略列表（排序）。
func SupportedAssemblers() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	return sortedKeys(defaultAssemblers)
}

// DefaultFactory 返回基于当前注册表构建的 NodeFactory，包含所有通过 Register / RegisterAssembler 注册的类型。
func DefaultFactory() *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, builder)
	}
	for name, builder := range defaultAssemblers {
		f.RegisterAssembler(name, builder)
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中的转换策略与所有 node 类型均已注册；
// 若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	defaultBuildersMu.RLock()
	_, ok := defaultAssemblers[cfg.Pipeline.Assembler]
	defaultBuildersMu.RUnlock()
	if !ok {
		return fmt.Errorf("unsupported assembler %q (supported: %v)", cfg.Pipeline.Assembler, SupportedAssemblers())
	}

	supported := SupportedTypes()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			continue
		}
		defaultBuildersMu.RLock()
		_, ok := defaultBuilders[nc.Type]
		defaultBuildersMu.RUnlock()
		if !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}
