package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "pipeline.JSON")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"pipeline": {"name": "qa", "assembler": "question_answering",
			"nodes": [{"type": "rerank.topn", "config": {"n": 1}}]}
	}`), 0o644))
	yamlPath := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("pipeline:\n  name: gen\n  assembler: generation\n"), 0o644))

	cfg, err := LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "qa", cfg.Pipeline.Name)
	require.Len(t, cfg.Pipeline.Nodes, 1)
	assert.Equal(t, 1.0, cfg.Pipeline.Nodes[0].Config["n"])

	cfg, err = LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "generation", cfg.Pipeline.Assembler)

	_, err = LoadConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNodeFactoryPassesResources(t *testing.T) {
	f := NewNodeFactory()
	var got Resources
	f.Register("capture", func(_ map[string]any, res Resources) (Node, error) {
		got = res
		return dropFirst{}, nil
	})
	f.RegisterAssembler("echo", func() Assembler { return &echoAssembler{} })

	cfg := &Config{}
	cfg.Pipeline.Assembler = "echo"
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "capture"}}
	p, err := cfg.BuildPipeline(f)
	require.NoError(t, err)
	assert.Len(t, p.Nodes, 1)
	assert.Nil(t, got.Store)

	cfg.Pipeline.Nodes = []NodeConfig{{Type: "unknown"}}
	_, err = cfg.BuildPipeline(f)
	assert.ErrorContains(t, err, "unknown node type")
}
