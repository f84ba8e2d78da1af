package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"

	"alfredoptarigan/resume-screener/internal/models"
)

// GenerationRequest is everything a text-generation backend receives.
type GenerationRequest struct {
	Model           string
	System          string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
	JSONMode        bool
}

// GenerationBackend is a vendor adapter. It returns the raw completion text,
// which may or may not be JSON.
type GenerationBackend interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

type InvokeOptions struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	JSONMode        bool
}

type EvaluationClient interface {
	Invoke(ctx context.Context, prompt models.EvaluationPrompt, opts InvokeOptions) (string, error)
}

type evaluationClient struct {
	backend     GenerationBackend
	callTimeout time.Duration
	maxAttempts int
	metrics     *Metrics
}

// NewEvaluationClient wraps backend with a per-call timeout and bounded
// retries. maxAttempts below 1 means a single attempt.
func NewEvaluationClient(backend GenerationBackend, callTimeout time.Duration, maxAttempts int, metrics *Metrics) EvaluationClient {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &evaluationClient{
		backend:     backend,
		callTimeout: callTimeout,
		maxAttempts: maxAttempts,
		metrics:     metrics,
	}
}

// Invoke returns the raw completion. Every failure is a *ServiceError.
func (c *evaluationClient) Invoke(ctx context.Context, prompt models.EvaluationPrompt, opts InvokeOptions) (string, error) {
	req := GenerationRequest{
		Model:           opts.Model,
		System:          prompt.System,
		Prompt:          prompt.User,
		Temperature:     opts.Temperature,
		MaxOutputTokens: opts.MaxOutputTokens,
		JSONMode:        opts.JSONMode,
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		if err := ctx.Err(); err != nil {
			return "", backoff.Permanent(err)
		}

		callCtx := ctx
		if c.callTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.callTimeout)
			defer cancel()
		}

		start := time.Now()
		text, err := c.backend.Generate(callCtx, req)
		c.metrics.ObserveGeneration(prompt.Kind, time.Since(start), err)
		if err != nil {
			if ctx.Err() != nil {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return text, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(500*time.Millisecond)),
			uint64(c.maxAttempts-1),
		),
		ctx,
	)

	notify := func(err error, wait time.Duration) {
		log.Printf("⚠️  Generation attempt %d failed: %v. Retrying in %s...\n", attempt, err, wait)
	}

	text, err := backoff.RetryNotifyWithData(operation, policy, notify)
	if err != nil {
		return "", &ServiceError{
			Op:  fmt.Sprintf("generate (%d attempt(s))", attempt),
			Err: err,
		}
	}

	return text, nil
}
