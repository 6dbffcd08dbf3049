package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/skillkit/core"
)

// Pipeline 把一次查询拆成 “Assembler → 后处理 Node 链”，并在入口/出口输出结构化事件。
type Pipeline struct {
	Name      string
	Assembler Assembler
	Nodes     []Node
	// Logger 为空时使用 slog.Default()
	Logger *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

type loggerKey struct{}

// ContextWithLogger 返回携带 logger 的 ctx，Node 通过 LoggerFromContext 取用。
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFromContext 返回 Run 注入的 logger（带 pipeline 与 corr_id），不存在时返回 slog.Default()。
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// Run 组装并后处理一次查询的结果。失败时不返回部分结果。
// 结果带有对抗标注时跳过所有后处理 Node，保持原始位置。
func (p *Pipeline) Run(
	ctx context.Context,
	q *core.Query,
	payload core.Payload,
) (*core.QueryOutput, error) {
	if p.Assembler == nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, "pipeline: assembler is required")
	}

	log := p.logger().With(
		slog.String("comp", "pipeline"),
		slog.String("pipeline", p.Name),
		slog.String("assembler", p.Assembler.Name()),
		slog.String("corr_id", uuid.NewString()),
	)
	start := time.Now()
	log.DebugContext(ctx, "assemble", slog.String("stage", "start"))

	out, err := p.run(ContextWithLogger(ctx, log), q, payload)
	if err != nil {
		log.ErrorContext(ctx, "assemble",
			slog.String("stage", "error"),
			slog.Int64("dur_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	log.InfoContext(ctx, "assemble",
		slog.String("stage", "finish"),
		slog.Int("count", out.Len()),
		slog.Bool("ranked", out.Ranked()),
		slog.Int64("dur_ms", time.Since(start).Milliseconds()),
	)
	return out, nil
}

func (p *Pipeline) run(ctx context.Context, q *core.Query, payload core.Payload) (*core.QueryOutput, error) {
	if q == nil {
		q = &core.Query{}
	}
	out, err := p.Assembler.Assemble(ctx, q, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Assembler.Name(), err)
	}
	if out.Adversarial != nil || len(p.Nodes) == 0 {
		return out, nil
	}

	cur := out.Predictions
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, q, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return core.NewQueryOutput(cur, nil), nil
}

// Request 是批量执行中的一次查询。
type Request struct {
	Query   *core.Query
	Payload core.Payload
}

// RunBatch 并发执行多次互不相关的查询，结果与 reqs 按下标对应。
// 任一查询失败时返回该错误，不返回部分结果。maxConcurrent <= 0 表示不限制并发数。
func (p *Pipeline) RunBatch(ctx context.Context, reqs []Request, maxConcurrent int) ([]*core.QueryOutput, error) {
	outs := make([]*core.QueryOutput, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		eg.SetLimit(maxConcurrent)
	}
	for i, req := range reqs {
		i, req := i, req
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out, err := p.Run(egCtx, req.Query, req.Payload)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}
