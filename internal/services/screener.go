package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	DefaultFitThreshold      = 70
	DefaultBatchFitThreshold = 65
	DefaultScreenConcurrency = 3

	ErrNoExtractableText = "no text could be extracted"
)

// Per-resume outcome labels, used for metrics.
const (
	outcomeOK           = "ok"
	outcomeEmpty        = "empty"
	outcomeExtractError = "extract_error"
	outcomeServiceError = "service_error"
	outcomeParseError   = "parse_error"
	outcomePanic        = "panic"
)

// UsageLogger records how many resumes a caller screened.
type UsageLogger interface {
	LogUsage(ctx context.Context, userID string, count int) error
}

type ScreenerConfig struct {
	FitThreshold      int
	BatchFitThreshold int
	Concurrency       int
	Identity          IdentityStrategy
	Invoke            InvokeOptions
}

type Screener interface {
	ScreenBatch(ctx context.Context, req models.BatchRequest) models.BatchOutcome
	ThresholdFor(mode models.ScreeningMode) int
}

type screener struct {
	extractor TextExtractor
	client    EvaluationClient
	prompts   *PromptBuilder
	usage     UsageLogger
	metrics   *Metrics
	cfg       ScreenerConfig
}

// NewScreener wires the per-resume pipeline. usage and metrics may be nil.
func NewScreener(extractor TextExtractor, client EvaluationClient, prompts *PromptBuilder, usage UsageLogger, metrics *Metrics, cfg ScreenerConfig) Screener {
	if cfg.FitThreshold <= 0 {
		cfg.FitThreshold = DefaultFitThreshold
	}
	if cfg.BatchFitThreshold <= 0 {
		cfg.BatchFitThreshold = DefaultBatchFitThreshold
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultScreenConcurrency
	}
	if cfg.Identity == "" {
		cfg.Identity = IdentityModelSupplied
	}

	return &screener{
		extractor: extractor,
		client:    client,
		prompts:   prompts,
		usage:     usage,
		metrics:   metrics,
		cfg:       cfg,
	}
}

func (s *screener) ThresholdFor(mode models.ScreeningMode) int {
	if mode == models.ModeBatchMetrics {
		return s.cfg.BatchFitThreshold
	}
	return s.cfg.FitThreshold
}

// ScreenBatch evaluates every document and ranks the results. One resume's
// failure never affects the others; it shows up as an error result instead.
func (s *screener) ScreenBatch(ctx context.Context, req models.BatchRequest) models.BatchOutcome {
	mode := req.Mode
	if !mode.Valid() {
		mode = models.ModeEvaluation
	}
	threshold := s.ThresholdFor(mode)
	total := len(req.Documents)

	results := make([]models.CandidateResult, total)

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, doc := range req.Documents {
		g.Go(func() error {
			log.Printf("👷 Screening resume %d/%d: %s\n", i+1, total, doc.Filename)
			result, outcome := s.screenOne(ctx, req.JobDescription, doc, mode, threshold)
			result.Index = i
			result.Filename = doc.Filename
			results[i] = result
			s.metrics.ObserveResume(outcome, result)
			return nil
		})
	}
	_ = g.Wait()

	outcome := models.BatchOutcome{Ranked: Rank(results)}

	if mode == models.ModeBatchMetrics && len(req.GroundTruth) > 0 {
		metrics, err := ComputeBatchMetrics(results, req.GroundTruth, threshold)
		if err != nil {
			log.Printf("⚠️  Skipping batch metrics: %v\n", err)
			outcome.MetricsError = err.Error()
		} else {
			outcome.Metrics = &metrics
		}
	}

	if total > 0 && s.usage != nil {
		if err := s.usage.LogUsage(ctx, req.UserID, total); err != nil {
			log.Printf("⚠️  Failed to log usage for %s: %v\n", req.UserID, err)
		}
	}

	log.Printf("✅ Screened %d resume(s): %d fit\n", total, outcome.Ranked.FitCount)
	return outcome
}

func (s *screener) screenOne(ctx context.Context, jobDescription string, doc models.UploadedDocument, mode models.ScreeningMode, threshold int) (result models.CandidateResult, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while screening %s: %v\n", doc.Filename, r)
			result = failedResult(fmt.Sprintf("internal error: %v", r))
			outcome = outcomePanic
		}
	}()

	raw, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		log.Printf("❌ Extraction failed for %s: %v\n", doc.Filename, err)
		return failedResult(err.Error()), outcomeExtractError
	}

	text := NormalizeText(raw)
	if text == "" {
		log.Printf("⚠️  No text extracted from %s\n", doc.Filename)
		return failedResult(ErrNoExtractableText), outcomeEmpty
	}

	prompt := s.prompts.Build(models.TemplateEvaluation, jobDescription, text, PromptExtras{
		FitThreshold:         threshold,
		IncludeMissingSkills: mode == models.ModeBatchMetrics,
	})

	reply, err := s.client.Invoke(ctx, prompt, s.cfg.Invoke)
	if err != nil {
		log.Printf("❌ Evaluation failed for %s: %v\n", doc.Filename, err)
		result = failedResult(err.Error())
		result.ResumeText = text
		return result, outcomeServiceError
	}

	result = ParseEvaluation(reply, threshold)
	result.ResumeText = text
	if result.Failed() {
		return result, outcomeParseError
	}

	applyIdentity(&result, s.cfg.Identity, raw)
	return result, outcomeOK
}

// ParseLabels reads a comma separated list of 0/1 labels. Blank input yields nil.
func ParseLabels(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	labels := make([]int, 0, len(parts))
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "0":
			labels = append(labels, 0)
		case "1":
			labels = append(labels, 1)
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidLabel, strings.TrimSpace(p), i)
		}
	}
	return labels, nil
}
