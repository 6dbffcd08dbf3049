package align

import (
	"github.com/rushteam/skillkit/core"
)

// Documents 把上下文展开为 n 份文档列表（每条预测一份）：
//   - 空值：n 个空列表（不附带证据）
//   - 单个字符串：n 份相同的单文档列表
//   - 列表：长度必须等于 n，按位置一一对应，否则返回 SHAPE_MISMATCH
func Documents(n int, context core.TextSpec) ([][]core.Document, error) {
	out := make([][]core.Document, n)
	switch context.Kind() {
	case core.TextNone:
		for i := range out {
			out[i] = []core.Document{}
		}
	case core.TextSingle:
		text, _ := context.Single()
		for i := range out {
			out[i] = []core.Document{core.NewDocument(text)}
		}
	case core.TextList:
		list, _ := context.List()
		if len(list) != n {
			return nil, core.NewShapeMismatchError("context", len(list), n)
		}
		for i, text := range list {
			out[i] = []core.Document{core.NewDocument(text)}
		}
	default:
		return nil, core.NewUnsupportedTypeError("context", context)
	}
	return out, nil
}
