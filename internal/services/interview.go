package services

import (
	"context"
	"log"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

type InterviewGenerator interface {
	Generate(ctx context.Context, jobDescription, resumeText string, matchedSkills []string) models.InterviewQA
}

type interviewGenerator struct {
	client  EvaluationClient
	prompts *PromptBuilder
	opts    InvokeOptions
}

// NewInterviewGenerator returns a generator that asks the model for
// questions about the candidate's matched skills. opts usually carries a
// non-zero temperature so repeated calls vary.
func NewInterviewGenerator(client EvaluationClient, prompts *PromptBuilder, opts InvokeOptions) InterviewGenerator {
	return &interviewGenerator{
		client:  client,
		prompts: prompts,
		opts:    opts,
	}
}

func (g *interviewGenerator) Generate(ctx context.Context, jobDescription, resumeText string, matchedSkills []string) models.InterviewQA {
	skills := make([]string, 0, len(matchedSkills))
	for _, s := range matchedSkills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) == 0 {
		return models.InterviewQA{Items: []models.QAPair{}}
	}

	prompt := g.prompts.Build(models.TemplateInterview, jobDescription, resumeText, PromptExtras{MatchedSkills: skills})

	raw, err := g.client.Invoke(ctx, prompt, g.opts)
	if err != nil {
		log.Printf("❌ Interview question generation failed: %v\n", err)
		return models.InterviewQA{Items: []models.QAPair{}, Error: err.Error()}
	}

	qa := ParseInterview(raw)
	if qa.Error != "" {
		log.Printf("⚠️  %s\n", qa.Error)
	}
	return qa
}
