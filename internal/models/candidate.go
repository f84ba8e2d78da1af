package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CandidateRecord struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SessionID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Position       int            `gorm:"not null" json:"position"`
	Rank           int            `gorm:"not null" json:"rank"`
	Filename       string         `gorm:"type:text" json:"filename"`
	CandidateName  string         `gorm:"type:text" json:"candidate_name"`
	CandidateEmail string         `gorm:"type:text" json:"candidate_email"`
	FitScore       int            `json:"fit_score"`
	Fit            bool           `json:"fit"`
	MatchedSkills  datatypes.JSON `gorm:"type:jsonb" json:"matched_skills"`
	MissingSkills  datatypes.JSON `gorm:"type:jsonb" json:"missing_skills,omitempty"`
	Explanation    string         `gorm:"type:text" json:"explanation"`
	ErrorMessage   string         `gorm:"type:text" json:"error,omitempty"`
	ResumeText     string         `gorm:"type:text" json:"-"`
	InterviewQA    datatypes.JSON `gorm:"type:jsonb" json:"interview_qa,omitempty"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CandidateRecord) TableName() string {
	return "candidate_records"
}

// NewCandidateRecord flattens a ranked result into a row. rank is 1-based.
func NewCandidateRecord(sessionID uuid.UUID, rank int, r CandidateResult) CandidateRecord {
	return CandidateRecord{
		ID:             uuid.New(),
		SessionID:      sessionID,
		Position:       r.Index,
		Rank:           rank,
		Filename:       r.Filename,
		CandidateName:  r.CandidateName,
		CandidateEmail: r.CandidateEmail,
		FitScore:       r.FitScore,
		Fit:            bool(r.Decision),
		MatchedSkills:  jsonList(r.MatchedSkills),
		MissingSkills:  jsonList(r.MissingSkills),
		Explanation:    r.Explanation,
		ErrorMessage:   r.Error,
		ResumeText:     r.ResumeText,
	}
}

// Result rebuilds the pipeline view of a stored row.
func (c CandidateRecord) Result() CandidateResult {
	return CandidateResult{
		Index:          c.Position,
		Filename:       c.Filename,
		CandidateName:  c.CandidateName,
		CandidateEmail: c.CandidateEmail,
		FitScore:       c.FitScore,
		Decision:       FitDecision(c.Fit),
		MatchedSkills:  decodeList(c.MatchedSkills),
		MissingSkills:  decodeList(c.MissingSkills),
		Explanation:    c.Explanation,
		Error:          c.ErrorMessage,
		ResumeText:     c.ResumeText,
	}
}

func (c CandidateRecord) Interview() (*InterviewQA, bool) {
	if len(c.InterviewQA) == 0 {
		return nil, false
	}
	var qa InterviewQA
	if err := json.Unmarshal(c.InterviewQA, &qa); err != nil {
		return nil, false
	}
	return &qa, true
}

func jsonList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

func decodeList(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	_ = json.Unmarshal(raw, &out)
	return out
}
