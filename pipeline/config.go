package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/skillkit/core"
)

// Config 是 Pipeline 的配置结构（支持 YAML/JSON）。
type Config struct {
	Pipeline struct {
		Name      string       `yaml:"name" json:"name"`
		Assembler string       `yaml:"assembler" json:"assembler"` // question_answering / generation 等
		Nodes     []NodeConfig `yaml:"nodes" json:"nodes"`
	} `yaml:"pipeline" json:"pipeline"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string         `yaml:"type" json:"type"`     // filter.expr / rerank.topn / rerank.dedup 等
	Config map[string]any `yaml:"config" json:"config"` // Node 特定配置
}

// LoadConfig 按扩展名加载配置：.json 使用 JSON，其余按 YAML 解析。
func LoadConfig(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadFromJSON(path)
	}
	return LoadFromYAML(path)
}

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML 解析 YAML 格式的 Pipeline 配置。
func ParseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载 Pipeline 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	return &cfg, nil
}

// BuildPipeline 根据配置构建 Pipeline（需要 NodeFactory 注册 Assembler / Node 构建器）。
// 注意：factory 应该在独立的 config 包中，避免循环依赖。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	if c.Pipeline.Assembler == "" {
		return nil, fmt.Errorf("assembler is required")
	}
	assembler, err := factory.BuildAssembler(c.Pipeline.Assembler)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(c.Pipeline.Nodes))
	for _, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, fmt.Errorf("build node %s: %w", nc.Type, err)
		}
		nodes = append(nodes, node)
	}

	return &Pipeline{Name: c.Pipeline.Name, Assembler: assembler, Nodes: nodes}, nil
}

// Resources 是构建 Node 时可用的共享依赖。
type Resources struct {
	// Store 供需要外部数据的 Node 使用（如黑名单），可为空
	Store core.Store
}

// NodeBuilder 根据配置构建 Node。
type NodeBuilder func(cfg map[string]any, res Resources) (Node, error)

// AssemblerBuilder 构建 Assembler（转换策略没有可配置项）。
type AssemblerBuilder func() Assembler

// NodeFactory 用于根据配置构建 Assembler / Node 实例。
type NodeFactory struct {
	// Resources 会传给每个 NodeBuilder
	Resources Resources

	builders   map[string]NodeBuilder
	assemblers map[string]AssemblerBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders:   make(map[string]NodeBuilder),
		assemblers: make(map[string]AssemblerBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// RegisterAssembler 注册 Assembler 构建器。
func (f *NodeFactory) RegisterAssembler(name string, builder AssemblerBuilder) {
	f.assemblers[name] = builder
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]any) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config, f.Resources)
}

// BuildAssembler 根据名称构建 Assembler。
func (f *NodeFactory) BuildAssembler(name string) (Assembler, error) {
	builder, ok := f.assemblers[name]
	if !ok {
		return nil, fmt.Errorf("unknown assembler: %s", name)
	}
	return builder(), nil
}
