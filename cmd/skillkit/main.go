// Command skillkit 把模型服务的原始输出转换为排好序的 QueryOutput JSON。
//
// 用法：
//
//	skillkit -task question_answering -question "..." -context "..." -payload payload.json
//	skillkit -config pipeline.yaml -query query.json -model bert -endpoint http://localhost:8000
//	skillkit -task generation -batch requests.jsonl
//
// payload 既可以来自文件（-payload，"-" 表示 STDIN），也可以由 -endpoint/-model 调用模型服务获得。
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rushteam/skillkit/config"
	_ "github.com/rushteam/skillkit/config/builders"
	"github.com/rushteam/skillkit/core"
	"github.com/rushteam/skillkit/pipeline"
	"github.com/rushteam/skillkit/service"
	"github.com/rushteam/skillkit/store"
)

type cliFlags struct {
	config   string
	task     string
	payload  string
	query    string
	batch    string
	question string
	answers  string
	context  string
	endpoint string
	model    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	env := loadEnvConfig()
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: env.LogLevel}))

	var f cliFlags
	fs := flag.NewFlagSet("skillkit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "pipeline 配置文件（YAML，.json 结尾按 JSON 解析）；缺省时只运行 -task 指定的转换策略")
	fs.StringVar(&f.task, "task", "", "转换策略："+strings.Join(config.SupportedAssemblers(), " / "))
	fs.StringVar(&f.payload, "payload", "", "模型输出 JSON 文件，\"-\" 表示 STDIN")
	fs.StringVar(&f.query, "query", "", "查询 JSON 文件（questions/answers/context/context_score）")
	fs.StringVar(&f.batch, "batch", "", "批量模式：JSONL 文件，每行 {\"query\": {...}, \"payload\": {...}}")
	fs.StringVar(&f.question, "question", "", "问题（覆盖 -query）")
	fs.StringVar(&f.answers, "answers", "", "候选答案，以 | 分隔（覆盖 -query）")
	fs.StringVar(&f.context, "context", "", "上下文（覆盖 -query）")
	fs.StringVar(&f.endpoint, "endpoint", env.BackendEndpoint, "模型服务根地址（SKILLKIT_BACKEND_ENDPOINT）")
	fs.StringVar(&f.model, "model", "", "模型名称（调用模型服务时必填）")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()
	cache := openStore(ctx, env, logger)
	if cache != nil {
		defer cache.Close()
	}
	p, err := buildPipeline(f, cache, logger)
	if err != nil {
		fmt.Fprintf(stderr, "build pipeline: %v\n", err)
		return 2
	}

	var result any
	if f.batch != "" {
		result, err = runBatch(ctx, p, f.batch, env.MaxConcurrent)
	} else {
		result, err = runOne(ctx, p, f, env, cache, stdin, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "skillkit: %v\n", err)
		if de := core.GetDomainError(err); de != nil {
			logger.Error("run failed", "comp", "cli", "code", de.Code, "module", de.Module)
		}
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}

// openStore 按环境变量打开共享存储：配置了 Redis 时优先使用，
// Redis 不可用且开启缓存时退回内存存储。两者都不需要时返回 nil。
func openStore(ctx context.Context, env envConfig, logger *slog.Logger) core.Store {
	if env.RedisAddr != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		rs, err := store.NewRedisStore(dialCtx, env.RedisAddr, env.RedisDB)
		cancel()
		if err == nil {
			return rs
		}
		logger.Warn("redis unavailable, falling back to memory store", "comp", "cli", "error", err)
	}
	if env.CacheTTL > 0 {
		return store.NewMemoryStore(env.CacheSize)
	}
	return nil
}

func buildPipeline(f cliFlags, cache core.Store, logger *slog.Logger) (*pipeline.Pipeline, error) {
	factory := config.DefaultFactory()
	factory.Resources.Store = cache
	if f.config != "" {
		cfg, err := pipeline.LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		if f.task != "" {
			cfg.Pipeline.Assembler = f.task
		}
		if err := config.ValidatePipelineConfig(cfg); err != nil {
			return nil, err
		}
		p, err := cfg.BuildPipeline(factory)
		if err != nil {
			return nil, err
		}
		p.Logger = logger
		return p, nil
	}
	if f.task == "" {
		return nil, errors.New("-task or -config is required")
	}
	assembler, err := factory.BuildAssembler(f.task)
	if err != nil {
		return nil, fmt.Errorf("%w (supported: %v)", err, config.SupportedAssemblers())
	}
	return &pipeline.Pipeline{Name: f.task, Assembler: assembler, Logger: logger}, nil
}

func runOne(
	ctx context.Context,
	p *pipeline.Pipeline,
	f cliFlags,
	env envConfig,
	cache core.Store,
	stdin io.Reader,
	logger *slog.Logger,
) (*core.QueryOutput, error) {
	q, err := loadQuery(f)
	if err != nil {
		return nil, err
	}

	var payload core.Payload
	switch {
	case f.payload != "":
		payload, err = readPayload(f.payload, stdin)
	case f.endpoint != "":
		payload, err = fetchPayload(ctx, f, env, cache, p.Assembler.Kind(), q, logger)
	default:
		err = errors.New("-payload or -endpoint is required")
	}
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, q, payload)
}

func loadQuery(f cliFlags) (*core.Query, error) {
	q := &core.Query{}
	if f.query != "" {
		data, err := os.ReadFile(f.query)
		if err != nil {
			return nil, fmt.Errorf("read query: %w", err)
		}
		if err := json.Unmarshal(data, q); err != nil {
			return nil, fmt.Errorf("parse query: %w", err)
		}
	}
	if f.question != "" {
		q.Questions = core.Text(f.question)
	}
	if f.answers != "" {
		q.Answers = strings.Split(f.answers, "|")
	}
	if f.context != "" {
		q.Context = core.Text(f.context)
	}
	return q, nil
}

func readPayload(path string, stdin io.Reader) (core.Payload, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return core.ParsePayload(data)
}

// fetchPayload 调用模型服务获取 payload，SKILLKIT_CACHE_TTL > 0 时通过 cache 缓存。
func fetchPayload(
	ctx context.Context,
	f cliFlags,
	env envConfig,
	cache core.Store,
	kind pipeline.Kind,
	q *core.Query,
	logger *slog.Logger,
) (core.Payload, error) {
	if f.model == "" {
		return nil, errors.New("-model is required when calling the model service")
	}

	backend, err := service.NewBackend(&service.ServiceConfig{
		Type:     service.ServiceTypeHTTP,
		Endpoint: f.endpoint,
		Timeout:  env.BackendTimeout,
		CacheTTL: env.CacheTTL,
	}, cache)
	if err != nil {
		return nil, err
	}
	defer backend.Close()
	if cb, ok := backend.(*service.CachedBackend); ok {
		cb.Logger = logger
	}

	task, input := modelInput(kind, q)
	return backend.Predict(ctx, &service.PredictRequest{
		ModelName: f.model,
		Task:      task,
		Input:     input,
	})
}

// modelInput 按任务把查询展开为模型服务的输入对。
func modelInput(kind pipeline.Kind, q *core.Query) (string, []any) {
	question := q.Questions.At(0)
	switch kind {
	case pipeline.KindQuestionAnswering:
		contexts, ok := q.Context.List()
		if !ok {
			contexts = []string{q.Context.At(0)}
		}
		input := make([]any, 0, len(contexts))
		for i, c := range contexts {
			input = append(input, []any{q.Questions.At(i), c})
		}
		return service.TaskQuestionAnswering, input
	case pipeline.KindGeneration:
		if c := q.Context.At(0); c != "" {
			return service.TaskGeneration, []any{question + " " + c}
		}
		return service.TaskGeneration, []any{question}
	default:
		input := make([]any, 0, len(q.Answers))
		for _, a := range q.Answers {
			input = append(input, []any{question, a})
		}
		return service.TaskSequenceClassification, input
	}
}

type batchLine struct {
	Query   *core.Query  `json:"query"`
	Payload core.Payload `json:"payload"`
}

func runBatch(ctx context.Context, p *pipeline.Pipeline, path string, maxConcurrent int) ([]*core.QueryOutput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer file.Close()

	var reqs []pipeline.Request
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var bl batchLine
		if err := json.Unmarshal([]byte(text), &bl); err != nil {
			return nil, fmt.Errorf("batch line %d: %w", line, err)
		}
		if bl.Payload == nil {
			bl.Payload = core.Payload{}
		}
		reqs = append(reqs, pipeline.Request{Query: bl.Query, Payload: bl.Payload})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	return p.RunBatch(ctx, reqs, maxConcurrent)
}
