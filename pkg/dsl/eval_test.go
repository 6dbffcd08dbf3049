package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/skillkit/core"
)

func TestEvaluate(t *testing.T) {
	paris := core.NewPrediction("capital?", "Paris", 0.8, []core.Document{
		{Document: "Paris is the capital of France.", Span: core.NewSpan(0, 5), DocumentScore: 0.4},
	})
	none := core.NewPrediction("capital?", core.NoAnswerFound, 0.1, nil)

	cases := []struct {
		expr string
		pred *core.Prediction
		want bool
	}{
		{"", paris, true},
		{"prediction.score > 0.5", paris, true},
		{"prediction.answer_found && prediction.score > 0.5", none, false},
		{`prediction.output.contains("Par")`, paris, true},
		{`prediction.question == "capital?"`, none, true},
		{"prediction.document_score == 0.4", paris, true},
		{"prediction.document_score == 1.0", none, true},
		{"size(prediction.documents) > 0 && prediction.documents[0].span[1] == 5", paris, true},
		{"size(prediction.documents) == 0", none, true},
		{"prediction.has_explanation", paris, false},
	}
	for _, c := range cases {
		p, err := Compile(c.expr)
		require.NoError(t, err, c.expr)
		got, err := p.Evaluate(c.pred)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, c.expr)
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("prediction.score >")
	assert.Error(t, err)

	_, err = Compile("unknown_var > 1")
	assert.Error(t, err)

	p, err := Compile("prediction.score")
	require.NoError(t, err)
	_, err = p.Evaluate(core.NewPrediction("q", "a", 0.5, nil))
	assert.Error(t, err)
}

func TestProgramReuse(t *testing.T) {
	p, err := Compile("prediction.score >= 0.5")
	require.NoError(t, err)
	assert.Equal(t, "prediction.score >= 0.5", p.String())

	for score, want := range map[float64]bool{0.2: false, 0.5: true, 0.9: true} {
		got, err := p.Evaluate(core.NewPrediction("q", "a", score, nil))
		require.NoError(t, err)
		assert.Equal(t, want, got, "score %v", score)
	}

	got, err := p.Evaluate(nil)
	require.NoError(t, err)
	assert.False(t, got)
}
