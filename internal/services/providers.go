package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/resume-screener/internal/config"
)

// NewLLMService picks the vendor adapter named by LLM_PROVIDER.
func NewLLMService(cfg config.LLMConfig) (LLMService, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.Model, cfg.EmbedModel)
	case "openai":
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, cfg.EmbedModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// NewRedisClient returns nil without error when url is empty.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// NewPDFStrategies returns the extraction chain: in-process readers first,
// then Tika when a server is configured.
func NewPDFStrategies(cfg config.TikaConfig) []PDFStrategy {
	strategies := []PDFStrategy{
		NewPlainTextPDFStrategy(),
		NewPageRowPDFStrategy(),
	}
	if cfg.URL != "" {
		strategies = append(strategies, NewTikaPDFStrategy(cfg.URL, cfg.Timeout))
		log.Printf("✅ Tika fallback enabled at %s\n", cfg.URL)
	}
	return strategies
}

// Pipeline bundles everything the API and CLI need to screen resumes.
type Pipeline struct {
	LLM        LLMService
	Extractor  TextExtractor
	Screener   Screener
	Interviews InterviewGenerator
	Prompts    *PromptBuilder
}

// NewPipeline wires extractor, prompt builder, client and parser around llm.
// rdb and usage may be nil.
func NewPipeline(cfg *config.Config, llm LLMService, rdb *redis.Client, usage UsageLogger, metrics *Metrics) *Pipeline {
	var backend GenerationBackend = llm
	if rdb != nil {
		backend = NewCachedBackend(llm, rdb, cfg.Redis.CacheTTL, metrics)
		log.Println("✅ LLM response cache enabled")
	}

	client := NewEvaluationClient(backend, cfg.LLM.CallTimeout, cfg.LLM.MaxAttempts, metrics)
	prompts := NewPromptBuilder(cfg.Screening.PromptMaxChars, cfg.Screening.QuestionCount)
	extractor := NewTextExtractor(NewPDFStrategies(cfg.Tika)...)

	screener := NewScreener(extractor, client, prompts, usage, metrics, ScreenerConfig{
		FitThreshold:      cfg.Screening.FitThreshold,
		BatchFitThreshold: cfg.Screening.BatchFitThreshold,
		Concurrency:       cfg.Screening.Concurrency,
		Identity:          ParseIdentityStrategy(cfg.Screening.IdentityStrategy),
		Invoke: InvokeOptions{
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.EvalTemperature,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			JSONMode:        true,
		},
	})

	interviews := NewInterviewGenerator(client, prompts, InvokeOptions{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.InterviewTemperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		JSONMode:        true,
	})

	return &Pipeline{
		LLM:        llm,
		Extractor:  extractor,
		Screener:   screener,
		Interviews: interviews,
		Prompts:    prompts,
	}
}
