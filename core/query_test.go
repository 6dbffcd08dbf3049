package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextSpec(t *testing.T) {
	spec, err := ParseTextSpec("questions", nil)
	require.NoError(t, err)
	assert.True(t, spec.IsNone())

	spec, err = ParseTextSpec("questions", "why?")
	require.NoError(t, err)
	s, ok := spec.Single()
	assert.True(t, ok)
	assert.Equal(t, "why?", s)

	spec, err = ParseTextSpec("questions", []any{"a", "b"})
	require.NoError(t, err)
	list, ok := spec.List()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	for _, v := range []any{3, []any{"a", 1}, map[string]any{"a": "b"}} {
		_, err := ParseTextSpec("questions", v)
		assert.True(t, IsUnsupportedType(err), "value %#v", v)
	}
}

func TestTextSpecBroadcastAndAt(t *testing.T) {
	list, _ := Text("x").Broadcast(3).List()
	assert.Equal(t, []string{"x", "x", "x"}, list)
	assert.True(t, NoText().Broadcast(3).IsNone())

	assert.Equal(t, "x", Text("x").At(7))
	assert.Equal(t, "b", Texts("a", "b").At(1))
	assert.Equal(t, "", Texts("a").At(4))
	assert.Equal(t, "", NoText().At(0))
}

func TestScoreSpecAt(t *testing.T) {
	v, err := NoScore().At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = Score(0.3).At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.3, v)

	v, err = Scores(0.1, 0.2).At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.2, v)

	_, err = Scores(0.1).At(0, 2)
	assert.True(t, IsShapeMismatch(err))
}

func TestQueryJSON(t *testing.T) {
	var q Query
	require.NoError(t, json.Unmarshal([]byte(`{
		"questions": "who?",
		"answers": ["a", "b"],
		"context": ["c1", "c2"],
		"context_score": [0.5, 0.25]
	}`), &q))

	s, _ := q.Questions.Single()
	assert.Equal(t, "who?", s)
	assert.Equal(t, []string{"a", "b"}, q.Answers)
	assert.Equal(t, "c2", q.Context.At(1))
	score, err := q.ContextScore.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.25, score)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"questions": "who?",
		"answers": ["a", "b"],
		"context": ["c1", "c2"],
		"context_score": [0.5, 0.25]
	}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"questions": 5}`), &q))
}

func TestParsePayloadPresence(t *testing.T) {
	p, err := ParsePayload([]byte(`{"questions": "", "context": [], "adversarial": {"indices": []}, "labels": null}`))
	require.NoError(t, err)
	assert.False(t, p.Present("questions"))
	assert.False(t, p.Present("context"))
	assert.True(t, p.Present("adversarial"))
	assert.True(t, p.Has("adversarial"))
	assert.False(t, p.Has("labels"))
	assert.False(t, p.Has("missing"))

	_, err = ParsePayload([]byte(`[1, 2]`))
	assert.Error(t, err)
}
