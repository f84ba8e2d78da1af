package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestWriteCSV(t *testing.T) {
	ranked := Rank([]models.CandidateResult{
		{Index: 0, CandidateName: "Bob", CandidateEmail: "N/A", FitScore: 40, Decision: models.NotFit, MatchedSkills: []string{}, Explanation: "Too junior"},
		{Index: 1, CandidateName: "Jane Doe", CandidateEmail: "jane@x.com", FitScore: 82, Decision: models.Fit, MatchedSkills: []string{"Python", "SQL"}, Explanation: "Strong, relevant background"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ranked))

	want := "Candidate Name,Email,Fit Score,Fit,Matched Skills,Explanation\n" +
		"Jane Doe,jane@x.com,82,Yes,\"Python, SQL\",\"Strong, relevant background\"\n" +
		"Bob,N/A,40,No,,Too junior\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.RankedResultSet{}))

	assert.Equal(t, "Candidate Name,Email,Fit Score,Fit,Matched Skills,Explanation\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteCSVPropagatesWriterErrors(t *testing.T) {
	err := WriteCSV(failingWriter{}, models.RankedResultSet{})

	assert.ErrorContains(t, err, "disk full")
}
