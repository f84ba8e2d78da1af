package models

type CreateScreeningRequest struct {
	JobDescription string        `validate:"required,min=20"`
	Mode           ScreeningMode `validate:"required,oneof=evaluation batch_metrics"`
	UserEmail      string        `validate:"required,max=320"`
	FileCount      int           `validate:"gte=1"`
}

type CreateScreeningResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

type ScreeningResponse struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Mode         string              `json:"mode"`
	Summary      *ScreeningSummary   `json:"summary,omitempty"`
	Candidates   []CandidateResponse `json:"candidates,omitempty"`
	Metrics      *MetricsSummary     `json:"metrics,omitempty"`
	MetricsError *string             `json:"metrics_error,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}

type ScreeningSummary struct {
	FitCount int `json:"fit_count"`
	Total    int `json:"total"`
}

type MetricsSummary struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type CandidateResponse struct {
	ID string `json:"id"`
	CandidateResult
}

type SimilarCandidate struct {
	CandidateID string  `json:"candidate_id"`
	SessionID   string  `json:"session_id"`
	Score       float32 `json:"score"`
	Excerpt     string  `json:"excerpt"`
}

type UsageSummary struct {
	TotalResumes int         `json:"total_resumes"`
	UniqueUsers  int         `json:"unique_users"`
	Users        []UserUsage `json:"users"`
}
