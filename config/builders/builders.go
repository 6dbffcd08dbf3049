package builders

import (
	"fmt"

	"github.com/rushteam/skillkit/assemble"
	"github.com/rushteam/skillkit/config"
	"github.com/rushteam/skillkit/filter"
	"github.com/rushteam/skillkit/pipeline"
	"github.com/rushteam/skillkit/pkg/conv"
	"github.com/rushteam/skillkit/rerank"
)

func init() {
	config.RegisterAssembler(string(pipeline.KindClassification), func() pipeline.Assembler { return assemble.Classification{} })
	config.RegisterAssembler(string(pipeline.KindClassificationGraph), func() pipeline.Assembler { return assemble.ClassificationGraph{} })
	config.RegisterAssembler(string(pipeline.KindQuestionAnswering), func() pipeline.Assembler { return assemble.ExtractiveQA{} })
	config.RegisterAssembler(string(pipeline.KindGeneration), func() pipeline.Assembler { return assemble.TextGeneration{} })

	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.dedup", BuildDedupNode)
}

func BuildTopNNode(cfg map[string]any, _ pipeline.Resources) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("n must not be negative: %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildDedupNode(cfg map[string]any, _ pipeline.Resources) (pipeline.Node, error) {
	return &rerank.DedupNode{IgnoreCase: conv.ConfigGet(cfg, "ignore_case", false)}, nil
}

// BuildFilterNode 构建过滤 Node。blacklist 配置 key 时从 res.Store 读取黑名单。
func BuildFilterNode(cfg map[string]any, res pipeline.Resources) (pipeline.Node, error) {
	filtersConfig, ok := conv.ToSlice(cfg["filters"])
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := conv.ToMap(fc)
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "expr":
			f, err := filter.NewExprFilter(conv.ConfigGet(filterMap, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("expr filter: %w", err)
			}
			filters = append(filters, f)
		case "no_answer":
			filters = append(filters, filter.NoAnswerFilter{})
		case "blacklist":
			outputs, _ := conv.ToStringSlice(filterMap["outputs"])
			if outputs == nil {
				outputs = []string{}
			}
			key := conv.ConfigGet(filterMap, "key", "")
			var adapter *filter.StoreAdapter
			if key != "" {
				if res.Store == nil {
					return nil, fmt.Errorf("blacklist key %q requires a store", key)
				}
				adapter = filter.NewStoreAdapter(res.Store)
			}
			filters = append(filters, filter.NewBlacklistFilter(outputs, adapter, key))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}
