package align

import (
	"sort"

	"github.com/rushteam/skillkit/core"
)

// ArgsortDesc 返回按分数降序排列的下标，分数相同时下标小的在前。
func ArgsortDesc(scores []float64) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	return idx
}

// ToScores 把解释列表对齐到分数列表。
//
// 解释少于分数时，列表视为按分数排名给出（第 k 个解释属于第 k 高的分数）：
// 先用 fill 补齐到相同长度，再把第 k 项放到第 k 高分数所在的位置，排名靠后的分数得到 fill。
// 长度相同时按位置对应，原样返回；解释多于分数时返回 SHAPE_MISMATCH。
func ToScores[T any](scores []float64, items []T, fill T) ([]T, error) {
	if len(items) > len(scores) {
		return nil, core.NewShapeMismatchError("attributions", len(items), len(scores))
	}
	if len(items) == len(scores) {
		return items, nil
	}
	order := ArgsortDesc(scores)
	out := make([]T, len(scores))
	for rank, pos := range order {
		if rank < len(items) {
			out[pos] = items[rank]
		} else {
			out[pos] = fill
		}
	}
	return out, nil
}
