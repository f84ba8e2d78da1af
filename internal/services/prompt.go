package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	DefaultMaxInputChars = 4000
	DefaultQuestionCount = 10

	recruiterSystemInstruction = "You are an expert AI recruitment assistant. Respond with a single JSON object and nothing else."
)

type PromptBuilder struct {
	maxInputChars int
	questionCount int
}

// PromptExtras carries the per-call inputs that only some templates use.
type PromptExtras struct {
	FitThreshold         int
	IncludeMissingSkills bool
	MatchedSkills        []string
}

func NewPromptBuilder(maxInputChars, questionCount int) *PromptBuilder {
	if maxInputChars <= 0 {
		maxInputChars = DefaultMaxInputChars
	}
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &PromptBuilder{
		maxInputChars: maxInputChars,
		questionCount: questionCount,
	}
}

func (pb *PromptBuilder) MaxInputChars() int {
	return pb.maxInputChars
}

// Build renders the template for kind. The job description and resume are
// cut to MaxInputChars runes before interpolation.
func (pb *PromptBuilder) Build(kind models.TemplateKind, jobDescription, resumeText string, extras PromptExtras) models.EvaluationPrompt {
	jd := truncateRunes(jobDescription, pb.maxInputChars)
	resume := truncateRunes(resumeText, pb.maxInputChars)

	var user string
	switch kind {
	case models.TemplateInterview:
		user = pb.buildInterviewPrompt(jd, resume, extras.MatchedSkills)
	default:
		user = pb.buildEvaluationPrompt(jd, resume, extras)
	}

	return models.EvaluationPrompt{
		Kind:   kind,
		System: recruiterSystemInstruction,
		User:   user,
	}
}

func (pb *PromptBuilder) buildEvaluationPrompt(jd, resume string, extras PromptExtras) string {
	threshold := extras.FitThreshold
	if threshold <= 0 {
		threshold = 70
	}

	missingField := ""
	missingInstruction := ""
	if extras.IncludeMissingSkills {
		missingField = "\n    \"Missing Skills\": [\"Skill4\"],"
		missingInstruction = "\n**Missing Skills:** List skills required by the job description that the resume does not show."
	}

	return fmt.Sprintf(`You are an AI recruitment assistant analyzing a resume against a job description. Only match skills that are explicitly listed in the job description AND mentioned in the candidate's resume.

### Job Description:
%s

### Resume:
%s

**Scoring Criteria (0-100):**
1. Tech Skills (60%%): compare job-required technical skills with resume skills.
   - Project-based skills (45%%): skills demonstrated in project descriptions.
   - General skills (15%%): skills listed outside of projects.
2. Experience (10%%): past roles, years in industry and relevance; for freshers, projects and internships.
3. Education (20%%): degree alignment, relevant certifications and coursework.
4. Location (5%%): whether the candidate is in a preferred location.
5. Additional (5%%): extra certifications, courses or trainings.

**Fit Classification:**
- Fit: Yes (if score >= %d)
- Fit: No (if score < %d)

**Matched Skills:** List the relevant skills that align with the job description.%s
**Explanation:** A short reason why the candidate is or isn't a good fit.
**Candidate Name:** The candidate's name as written in the resume.
**Email:** The candidate's email address as written in the resume.

### Output Format (JSON only, no other text allowed):
{
    "Candidate Name": "Name of the Candidate",
    "Email": "Candidate's Email",
    "Fit Score": "XX",
    "Fit": "Yes/No",
    "Matched Skills": ["Skill1", "Skill2", "Skill3"],%s
    "Explanation": "Candidate has strong skills in X and Y but lacks experience in Z"
}`, jd, resume, threshold, threshold, missingInstruction, missingField)
}

func (pb *PromptBuilder) buildInterviewPrompt(jd, resume string, matchedSkills []string) string {
	return fmt.Sprintf(`You are an AI recruitment assistant generating phone interview questions and suggested answers that help the talent acquisition team assess a candidate against a job description.

### Job Description:
%s

### Resume:
%s

### Matched Skills:
%s

**Instructions:**
- Generate %d basic interview questions focused on the project skills mentioned in the candidate's resume.
- Focus on skills the candidate has used in their projects.
- Keep questions straightforward and about the practical application of these skills.
- Provide a clear and concise suggested answer for each question.
- Avoid complex or advanced questions.

### Output Format (JSON only, no other text allowed):
{
    "questions": [
        {"question": "Question 1", "answer": "Suggested answer for question 1"},
        {"question": "Question 2", "answer": "Suggested answer for question 2"}
    ]
}`, jd, resume, strings.Join(matchedSkills, ", "), pb.questionCount)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
