package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Bob")
	writeFile(t, dir, "a.pdf", "%PDF-1.4")
	writeFile(t, dir, "notes.md", "skip me")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "nested"), "c.txt", "skip me too")

	single := writeFile(t, t.TempDir(), "Jane.DOCX", "PK")

	docs, err := collectDocuments([]string{single, dir})
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "Jane.DOCX", docs[0].Filename)
	assert.Equal(t, ".docx", docs[0].DeclaredType)
	assert.Equal(t, "a.pdf", docs[1].Filename)
	assert.Equal(t, "b.txt", docs[2].Filename)
	assert.Equal(t, "Bob", string(docs[2].Content))
}

func TestCollectDocumentsMissingPath(t *testing.T) {
	_, err := collectDocuments([]string{filepath.Join(t.TempDir(), "missing.pdf")})
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, splitList(" Go, SQL ,,Kubernetes "))
	assert.Nil(t, splitList(" , "))
}

func TestPrintOutcome(t *testing.T) {
	outcome := models.BatchOutcome{
		Ranked: models.RankedResultSet{
			Results: []models.CandidateResult{
				{Index: 1, Filename: "jane.pdf", CandidateName: "Jane Doe", CandidateEmail: "jane@example.com", FitScore: 88, Decision: models.Fit, MatchedSkills: []string{"Go", "SQL"}},
				{Index: 0, Filename: "broken.pdf", Error: "no text could be extracted"},
			},
			FitCount: 1,
			Total:    2,
		},
		Metrics: &models.BatchMetrics{Precision: 1, Recall: 0.5, F1: 0.667, Threshold: 65},
	}

	var buf bytes.Buffer
	require.NoError(t, printOutcome(&buf, outcome))

	out := buf.String()
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Go, SQL")
	assert.Contains(t, out, "error: no text could be extracted")
	assert.Contains(t, out, "1 of 2 candidates fit")
	assert.Contains(t, out, "precision=1.000 recall=0.500 f1=0.667 (threshold 65)")
}

func TestPrintOutcomeMetricsError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printOutcome(&buf, models.BatchOutcome{MetricsError: "label count mismatch"}))
	assert.Contains(t, buf.String(), "metrics unavailable: label count mismatch")
}

func TestSaveReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	outcome := models.BatchOutcome{Ranked: models.RankedResultSet{FitCount: 0, Total: 0, Results: []models.CandidateResult{}}}

	path, err := saveReport(dir, outcome, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "screening-20250304-050607.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "ranked")
}

func TestPrintInterview(t *testing.T) {
	var buf bytes.Buffer
	printInterview(&buf, models.InterviewQA{Items: []models.QAPair{{Question: "What is a goroutine?", Answer: "A lightweight thread"}}})
	assert.Equal(t, "Q1. What is a goroutine?\n    A lightweight thread\n\n", buf.String())
}

func TestBatchCommandRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown mode", []string{"batch", "--jd", "jd.txt", "--mode", "vibes", "a.txt"}, "unknown mode"},
		{"labels need metrics mode", []string{"batch", "--jd", "jd.txt", "--mode", "evaluation", "--labels", "1,0", "a.txt"}, "--labels requires"},
		{"bad labels", []string{"batch", "--jd", "jd.txt", "--mode", "batch_metrics", "--labels", "1,x", "a.txt"}, "0 or 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&out)
			rootCmd.SetArgs(tt.args)

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
