package conv

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat64(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{json.Number("0.25"), 0.25, true},
		{true, 0, false},
		{"1", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := ToFloat64(c.in)
		assert.Equal(t, c.ok, ok, "input %#v", c.in)
		assert.Equal(t, c.want, got, "input %#v", c.in)
	}
}

func TestToInt(t *testing.T) {
	i, ok := ToInt(2.0)
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = ToInt(json.Number("7"))
	assert.True(t, ok)
	assert.Equal(t, 7, i)

	_, ok = ToInt("7")
	assert.False(t, ok)

	for _, v := range []any{1.7, float32(0.5), math.NaN(), math.Inf(1), json.Number("1.5")} {
		_, ok := ToInt(v)
		assert.False(t, ok, "input %#v", v)
	}
}

func TestSlices(t *testing.T) {
	f, ok := ToFloat64Slice([]any{1.0, 2, int64(3)})
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, f)

	_, ok = ToFloat64Slice([]any{1.0, "x"})
	assert.False(t, ok)
	_, ok = ToFloat64Slice([]any{true, false})
	assert.False(t, ok)

	_, ok = ToIntSlice([]any{0.0, 1.7})
	assert.False(t, ok)

	s, ok := ToStringSlice([]any{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, s)

	_, ok = ToStringSlice("a")
	assert.False(t, ok)

	ints, ok := ToIntSlice([]float64{1, 2})
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, ints)

	raw, ok := ToSlice([]string{"x"})
	require.True(t, ok)
	assert.Equal(t, []any{"x"}, raw)
}

func TestToMap(t *testing.T) {
	m, ok := ToMap(map[string]float64{"a": 1})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1.0}, m)

	_, ok = ToMap(map[int]string{1: "a"})
	assert.False(t, ok)
	_, ok = ToMap([]any{})
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	for _, v := range []any{nil, false, 0, 0.0, "", []any{}, map[string]any{}, []string{}} {
		assert.False(t, Truthy(v), "value %#v", v)
	}
	for _, v := range []any{true, 1, -0.5, "x", []any{nil}, map[string]any{"k": nil}, struct{}{}} {
		assert.True(t, Truthy(v), "value %#v", v)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	}
	require.NoError(t, Decode(map[string]any{"answer": "Paris", "score": 0.8}, &out))
	assert.Equal(t, "Paris", out.Answer)
	assert.Equal(t, 0.8, out.Score)

	assert.Error(t, Decode(map[string]any{"answer": 1}, &out))
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"expr": "prediction.score > 0.5", "n": 3.0}
	assert.Equal(t, "prediction.score > 0.5", ConfigGet(cfg, "expr", ""))
	assert.Equal(t, "fallback", ConfigGet(cfg, "missing", "fallback"))
	assert.Equal(t, "fallback", ConfigGet(cfg, "n", "fallback"))
	assert.Equal(t, int64(3), ConfigGetInt64(cfg, "n", 0))
	assert.Equal(t, int64(9), ConfigGetInt64(nil, "n", 9))
}
