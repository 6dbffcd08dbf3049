package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/skillkit/core"
)

// echoAssembler 把 payload["outputs"] 中的 output/score 对转为预测。
type echoAssembler struct {
	calls atomic.Int32
}

func (a *echoAssembler) Name() string { return "test.echo" }
func (a *echoAssembler) Kind() Kind   { return KindClassification }

func (a *echoAssembler) Assemble(_ context.Context, q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	a.calls.Add(1)
	if payload.Has("fail") {
		return nil, core.NewInvalidPayloadError("fail", "requested")
	}
	scores, _ := payload.Get("scores").([]float64)
	answers := q.Answers
	preds := make([]*core.Prediction, 0, len(scores))
	for i, s := range scores {
		preds = append(preds, core.NewPrediction("q", answers[i], s, nil))
	}
	var adv *core.Adversarial
	if payload.Has("adversarial") {
		adv = &core.Adversarial{Indices: []int{0}}
	}
	return core.NewQueryOutput(preds, adv), nil
}

// dropFirst 删除第一条预测。
type dropFirst struct{}

func (dropFirst) Name() string { return "test.drop_first" }
func (dropFirst) Kind() Kind   { return KindFilter }
func (dropFirst) Process(_ context.Context, _ *core.Query, preds []*core.Prediction) ([]*core.Prediction, error) {
	if len(preds) == 0 {
		return preds, nil
	}
	return preds[1:], nil
}

type failingNode struct{}

func (failingNode) Name() string { return "test.failing" }
func (failingNode) Kind() Kind   { return KindReRank }
func (failingNode) Process(context.Context, *core.Query, []*core.Prediction) ([]*core.Prediction, error) {
	return nil, errors.New("node failed")
}

func outputs(out *core.QueryOutput) []string {
	res := make([]string, 0, out.Len())
	for _, p := range out.Predictions {
		res = append(res, p.PredictionOutput.Output)
	}
	return res
}

func TestPipelineRun(t *testing.T) {
	var buf bytes.Buffer
	p := &Pipeline{
		Name:      "test",
		Assembler: &echoAssembler{},
		Nodes:     []Node{dropFirst{}},
		Logger:    slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	q := &core.Query{Answers: []string{"a", "b", "c"}}

	out, err := p.Run(context.Background(), q, core.Payload{"scores": []float64{0.2, 0.9, 0.5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, outputs(out))
	assert.True(t, out.Ranked())

	logs := buf.String()
	assert.Contains(t, logs, `"stage":"start"`)
	assert.Contains(t, logs, `"stage":"finish"`)
	assert.Contains(t, logs, `"corr_id"`)
	assert.Contains(t, logs, `"assembler":"test.echo"`)
}

// logNode 通过 ctx 中的 logger 输出事件。
type logNode struct{}

func (logNode) Name() string { return "test.log" }
func (logNode) Kind() Kind   { return KindFilter }
func (logNode) Process(ctx context.Context, _ *core.Query, preds []*core.Prediction) ([]*core.Prediction, error) {
	LoggerFromContext(ctx).WarnContext(ctx, "node event")
	return preds, nil
}

func TestPipelinePassesLoggerToNodes(t *testing.T) {
	var buf bytes.Buffer
	p := &Pipeline{
		Name:      "ctx",
		Assembler: &echoAssembler{},
		Nodes:     []Node{logNode{}},
		Logger:    slog.New(slog.NewJSONHandler(&buf, nil)),
	}
	_, err := p.Run(context.Background(), &core.Query{Answers: []string{"a"}}, core.Payload{"scores": []float64{0.5}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"node event"`)
	assert.Contains(t, buf.String(), `"pipeline":"ctx"`)

	assert.Same(t, slog.Default(), LoggerFromContext(context.Background()))
}

func TestPipelineSkipsNodesForAdversarial(t *testing.T) {
	p := &Pipeline{Assembler: &echoAssembler{}, Nodes: []Node{dropFirst{}, failingNode{}}}
	q := &core.Query{Answers: []string{"a", "b"}}

	out, err := p.Run(context.Background(), q, core.Payload{"scores": []float64{0.1, 0.9}, "adversarial": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, outputs(out))
	assert.False(t, out.Ranked())
}

func TestPipelineErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	q := &core.Query{Answers: []string{"a"}}

	p := &Pipeline{Assembler: &echoAssembler{}, Logger: logger}
	_, err := p.Run(context.Background(), q, core.Payload{"fail": true})
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
	assert.True(t, strings.HasPrefix(err.Error(), "test.echo: "))
	assert.Contains(t, buf.String(), `"stage":"error"`)

	p = &Pipeline{Assembler: &echoAssembler{}, Nodes: []Node{failingNode{}}, Logger: logger}
	out, err := p.Run(context.Background(), q, core.Payload{"scores": []float64{0.5}})
	assert.Nil(t, out)
	assert.EqualError(t, err, "test.failing: node failed")

	_, err = (&Pipeline{}).Run(context.Background(), q, core.Payload{})
	assert.True(t, core.IsInvalidInput(err))
}

func TestRunBatch(t *testing.T) {
	asm := &echoAssembler{}
	p := &Pipeline{Assembler: asm, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}

	reqs := make([]Request, 20)
	for i := range reqs {
		reqs[i] = Request{
			Query:   &core.Query{Answers: []string{"low", "high"}},
			Payload: core.Payload{"scores": []float64{0.1, float64(i)}},
		}
	}
	outs, err := p.RunBatch(context.Background(), reqs, 4)
	require.NoError(t, err)
	require.Len(t, outs, len(reqs))
	for i, out := range outs {
		require.Equal(t, 2, out.Len())
		if i == 0 {
			assert.Equal(t, "low", out.Top().PredictionOutput.Output)
			continue
		}
		assert.Equal(t, float64(i), out.Top().PredictionScore)
	}
	assert.Equal(t, int32(len(reqs)), asm.calls.Load())

	reqs[7].Payload = core.Payload{"fail": true}
	outs, err = p.RunBatch(context.Background(), reqs, 0)
	assert.Nil(t, outs)
	assert.ErrorContains(t, err, "request 7")
}
