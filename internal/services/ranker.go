package services

import (
	"fmt"
	"sort"

	"alfredoptarigan/resume-screener/internal/models"
)

// Rank orders results by fit score (highest first), breaking ties by upload
// index. The input slice is not modified.
func Rank(results []models.CandidateResult) models.RankedResultSet {
	ranked := make([]models.CandidateResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FitScore != ranked[j].FitScore {
			return ranked[i].FitScore > ranked[j].FitScore
		}
		return ranked[i].Index < ranked[j].Index
	})

	fitCount := 0
	for _, r := range ranked {
		if r.Decision == models.Fit {
			fitCount++
		}
	}

	return models.RankedResultSet{
		Results:  ranked,
		FitCount: fitCount,
		Total:    len(ranked),
	}
}

// ComputeBatchMetrics scores predictions (FitScore >= threshold) against binary
// labels. labels[i] belongs to the result whose Index is i, whatever order the
// results are in.
func ComputeBatchMetrics(results []models.CandidateResult, labels []int, threshold int) (models.BatchMetrics, error) {
	if len(labels) != len(results) {
		return models.BatchMetrics{}, fmt.Errorf("%w: %d labels for %d resumes", ErrLabelLengthMismatch, len(labels), len(results))
	}

	for i, label := range labels {
		if label != 0 && label != 1 {
			return models.BatchMetrics{}, fmt.Errorf("%w: label %d at position %d", ErrInvalidLabel, label, i)
		}
	}

	byIndex := make([]*models.CandidateResult, len(results))
	for i := range results {
		idx := results[i].Index
		if idx < 0 || idx >= len(results) || byIndex[idx] != nil {
			return models.BatchMetrics{}, fmt.Errorf("%w: result index %d does not map to a label", ErrLabelLengthMismatch, idx)
		}
		byIndex[idx] = &results[i]
	}

	predicted := make([]int, len(results))
	var tp, fp, fn int
	for i, r := range byIndex {
		if r.FitScore >= threshold {
			predicted[i] = 1
		}
		switch {
		case predicted[i] == 1 && labels[i] == 1:
			tp++
		case predicted[i] == 1 && labels[i] == 0:
			fp++
		case predicted[i] == 0 && labels[i] == 1:
			fn++
		}
	}

	precision := safeDiv(float64(tp), float64(tp+fp))
	recall := safeDiv(float64(tp), float64(tp+fn))
	f1 := safeDiv(2*precision*recall, precision+recall)

	groundTruth := make([]int, len(labels))
	copy(groundTruth, labels)

	return models.BatchMetrics{
		Predicted:   predicted,
		GroundTruth: groundTruth,
		Precision:   precision,
		Recall:      recall,
		F1:          f1,
		Threshold:   threshold,
	}, nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
