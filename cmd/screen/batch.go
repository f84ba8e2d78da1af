package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

type batchOptions struct {
	jdPath  string
	labels  string
	mode    string
	csvPath string
	save    bool
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch --jd FILE [FILES or DIRS...]",
		Short: "Screen a batch of resumes and print the ranking",
		Long: `Scores every resume against the job description, ranks them by fit
score and prints one row per candidate.

Examples:
  screen batch --jd jd.txt resumes/
  screen batch --jd jd.pdf --mode batch_metrics --labels 1,0,1 a.pdf b.docx c.txt
  screen batch --jd jd.txt --csv ranked.csv resumes/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "job description file")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "comma-separated 0/1 labels in file order")
	cmd.Flags().StringVar(&opts.mode, "mode", string(models.ModeEvaluation), "evaluation or batch_metrics")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "write the ranking to this CSV file")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the full outcome as JSON under REPORT_DIR")
	_ = cmd.MarkFlagRequired("jd")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *batchOptions, args []string) error {
	mode := models.ScreeningMode(opts.mode)
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q", opts.mode)
	}

	labels, err := services.ParseLabels(opts.labels)
	if err != nil {
		return err
	}
	if len(labels) > 0 && mode != models.ModeBatchMetrics {
		return errors.New("--labels requires --mode batch_metrics")
	}

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("no supported resume files found")
	}

	ctx := cmd.Context()
	cfg, pipeline, err := loadPipeline(ctx)
	if err != nil {
		return err
	}

	jd, err := readText(ctx, pipeline.Extractor, opts.jdPath)
	if err != nil {
		return err
	}

	log.Printf("🔄 Screening %d resumes\n", len(docs))
	outcome := pipeline.Screener.ScreenBatch(ctx, models.BatchRequest{
		UserID:         userEmail,
		JobDescription: jd,
		Documents:      docs,
		GroundTruth:    labels,
		Mode:           mode,
	})

	if err := printOutcome(cmd.OutOrStdout(), outcome); err != nil {
		return err
	}

	if opts.csvPath != "" {
		if err := writeCSVFile(opts.csvPath, outcome.Ranked); err != nil {
			return err
		}
		log.Printf("✅ Ranking written to %s\n", opts.csvPath)
	}

	if opts.save {
		path, err := saveReport(cfg.Storage.ReportDirectory, outcome, time.Now())
		if err != nil {
			return err
		}
		log.Printf("✅ Report saved to %s\n", path)
	}

	return nil
}

func writeCSVFile(path string, ranked models.RankedResultSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := services.WriteCSV(f, ranked); err != nil {
		return err
	}
	return f.Close()
}

func saveReport(dir string, outcome models.BatchOutcome, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("screening-%s.json", now.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
