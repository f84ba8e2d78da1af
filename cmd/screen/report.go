package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"alfredoptarigan/resume-screener/internal/models"
)

func printOutcome(w io.Writer, outcome models.BatchOutcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "RANK\tFILE\tCANDIDATE\tEMAIL\tSCORE\tFIT\tSKILLS")
	for i, r := range outcome.Ranked.Results {
		if r.Failed() {
			fmt.Fprintf(tw, "%d\t%s\t-\t-\t-\t-\terror: %s\n", i+1, r.Filename, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			i+1, r.Filename, r.CandidateName, r.CandidateEmail, r.FitScore, r.Decision, strings.Join(r.MatchedSkills, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d candidates fit\n", outcome.Ranked.FitCount, outcome.Ranked.Total)

	if m := outcome.Metrics; m != nil {
		fmt.Fprintf(w, "precision=%.3f recall=%.3f f1=%.3f (threshold %d)\n", m.Precision, m.Recall, m.F1, m.Threshold)
	}
	if outcome.MetricsError != "" {
		fmt.Fprintf(w, "metrics unavailable: %s\n", outcome.MetricsError)
	}
	return nil
}

func printInterview(w io.Writer, qa models.InterviewQA) {
	for i, item := range qa.Items {
		fmt.Fprintf(w, "Q%d. %s\n    %s\n\n", i+1, item.Question, item.Answer)
	}
}
