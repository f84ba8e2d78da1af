package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitDecisionJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Fit FitDecision `json:"fit"`
	}{Fit: Fit})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fit":"Yes"}`, string(b))

	var d FitDecision
	require.NoError(t, json.Unmarshal([]byte(`"No"`), &d))
	assert.Equal(t, NotFit, d)
	require.NoError(t, json.Unmarshal([]byte(`true`), &d))
	assert.Equal(t, Fit, d)
	assert.Error(t, json.Unmarshal([]byte(`12`), &d))
}

func TestKindDetection(t *testing.T) {
	assert.Equal(t, FileKindPDF, KindFromMIME("application/pdf"))
	assert.Equal(t, FileKindTXT, KindFromMIME("Text/Plain; charset=utf-8"))
	assert.Equal(t, FileKindUnknown, KindFromMIME("image/png"))

	assert.Equal(t, FileKindDOCX, KindFromFilename("CV.DOCX"))
	assert.Equal(t, FileKindDOC, KindFromFilename("old.doc"))
	assert.Equal(t, FileKindUnknown, KindFromFilename("README"))
}

func TestScreeningModeValid(t *testing.T) {
	assert.True(t, ModeEvaluation.Valid())
	assert.True(t, ModeBatchMetrics.Valid())
	assert.False(t, ScreeningMode("other").Valid())
}

func TestCandidateRecordResult(t *testing.T) {
	sessionID := uuid.New()
	in := CandidateResult{
		Index:          3,
		Filename:       "jane.pdf",
		CandidateName:  "Jane Doe",
		CandidateEmail: "jane@example.com",
		FitScore:       72,
		Decision:       Fit,
		MatchedSkills:  []string{"Go"},
		Explanation:    "Solid",
		ResumeText:     "Jane Doe Go",
	}

	rec := NewCandidateRecord(sessionID, 2, in)
	assert.Equal(t, sessionID, rec.SessionID)
	assert.Equal(t, 2, rec.Rank)
	assert.Equal(t, 3, rec.Position)
	assert.JSONEq(t, `[]`, string(rec.MissingSkills))

	out := rec.Result()
	assert.Equal(t, in.MatchedSkills, out.MatchedSkills)
	assert.Equal(t, []string{}, out.MissingSkills)
	assert.Equal(t, in.Decision, out.Decision)
	assert.Equal(t, in.ResumeText, out.ResumeText)
}

func TestCandidateRecordInterview(t *testing.T) {
	var rec CandidateRecord
	_, ok := rec.Interview()
	assert.False(t, ok)

	rec.InterviewQA = []byte(`{"items":[{"question":"Q","answer":"A"}]}`)
	qa, ok := rec.Interview()
	require.True(t, ok)
	assert.Equal(t, []QAPair{{Question: "Q", Answer: "A"}}, qa.Items)

	rec.InterviewQA = []byte(`{broken`)
	_, ok = rec.Interview()
	assert.False(t, ok)
}
