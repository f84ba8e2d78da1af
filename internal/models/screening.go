package models

import "encoding/json"

type ScreeningMode string

const (
	// ModeEvaluation scores each resume and ranks the batch.
	ModeEvaluation ScreeningMode = "evaluation"
	// ModeBatchMetrics additionally asks for missing skills and scores the
	// predictions against operator-supplied labels.
	ModeBatchMetrics ScreeningMode = "batch_metrics"
)

func (m ScreeningMode) Valid() bool {
	return m == ModeEvaluation || m == ModeBatchMetrics
}

type TemplateKind int

const (
	TemplateEvaluation TemplateKind = iota
	TemplateInterview
)

// EvaluationPrompt is a fully rendered prompt. It is deterministic for identical inputs.
type EvaluationPrompt struct {
	Kind   TemplateKind
	System string
	User   string
}

type FitDecision bool

const (
	Fit    FitDecision = true
	NotFit FitDecision = false
)

func (d FitDecision) String() string {
	if d {
		return "Yes"
	}
	return "No"
}

func (d FitDecision) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *FitDecision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*d = FitDecision(b)
		return nil
	}
	*d = FitDecision(s == "Yes")
	return nil
}

// CandidateResult is the outcome for one resume against one job description.
// When Error is set the score and lists hold their zero defaults.
type CandidateResult struct {
	Index          int         `json:"index"`
	Filename       string      `json:"filename"`
	CandidateName  string      `json:"candidate_name"`
	CandidateEmail string      `json:"candidate_email"`
	FitScore       int         `json:"fit_score"`
	Decision       FitDecision `json:"fit"`
	ModelFit       bool        `json:"model_fit"`
	MatchedSkills  []string    `json:"matched_skills"`
	MissingSkills  []string    `json:"missing_skills,omitempty"`
	Explanation    string      `json:"explanation"`
	Error          string      `json:"error,omitempty"`
	ResumeText     string      `json:"-"`
}

func (r CandidateResult) Failed() bool {
	return r.Error != ""
}

type RankedResultSet struct {
	Results  []CandidateResult `json:"results"`
	FitCount int               `json:"fit_count"`
	Total    int               `json:"total"`
}

type BatchMetrics struct {
	Predicted   []int   `json:"predicted"`
	GroundTruth []int   `json:"ground_truth"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	F1          float64 `json:"f1"`
	Threshold   int     `json:"threshold"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type InterviewQA struct {
	Items []QAPair `json:"items"`
	Error string   `json:"error,omitempty"`
}

type BatchRequest struct {
	UserID         string
	JobDescription string
	Documents      []UploadedDocument
	GroundTruth    []int
	Mode           ScreeningMode
}

type BatchOutcome struct {
	Ranked       RankedResultSet `json:"ranked"`
	Metrics      *BatchMetrics   `json:"metrics,omitempty"`
	MetricsError string          `json:"metrics_error,omitempty"`
}
