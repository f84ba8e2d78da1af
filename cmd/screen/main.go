package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/services"
)

var userEmail string

var rootCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen resumes against a job description from the command line",
	Long: `screen runs the same screening pipeline as the API without a database.

Resumes (PDF, DOCX, DOC or TXT) are scored against a job description, ranked,
and optionally compared with operator labels or exported to CSV.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&userEmail, "user", "cli", "user recorded with the screening")

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newInterviewCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPipeline builds the screening pipeline from the environment. Redis is
// used when configured; nothing is written to Postgres.
func loadPipeline(ctx context.Context) (*config.Config, *services.Pipeline, error) {
	cfg := config.Load()

	llm, err := services.NewLLMService(cfg.LLM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	rdb, err := services.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, continuing without response cache: %v\n", err)
	}

	return cfg, services.NewPipeline(cfg, llm, rdb, nil, nil), nil
}
