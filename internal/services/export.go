package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

var csvHeader = []string{"Candidate Name", "Email", "Fit Score", "Fit", "Matched Skills", "Explanation"}

// WriteCSV writes one row per result in ranked order.
func WriteCSV(w io.Writer, ranked models.RankedResultSet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range ranked.Results {
		row := []string{
			r.CandidateName,
			r.CandidateEmail,
			strconv.Itoa(r.FitScore),
			r.Decision.String(),
			strings.Join(r.MatchedSkills, ", "),
			r.Explanation,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Filename, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
