package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

type IdentityStrategy string

const (
	// IdentityModelSupplied trusts the model's name and email, falling back to
	// the local heuristic only for placeholders.
	IdentityModelSupplied IdentityStrategy = "model"
	// IdentityLocalHeuristic always reads name and email from the resume text.
	IdentityLocalHeuristic IdentityStrategy = "local"
)

func ParseIdentityStrategy(s string) IdentityStrategy {
	if strings.EqualFold(strings.TrimSpace(s), string(IdentityLocalHeuristic)) {
		return IdentityLocalHeuristic
	}
	return IdentityModelSupplied
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

const maxNameWords = 6

// ExtractLocalIdentity guesses the candidate's name (first non-empty line) and
// email (first address-looking match) from raw resume text.
func ExtractLocalIdentity(text string) (name, email string) {
	name, email = UnknownCandidateName, UnknownCandidateEmail

	if match := emailPattern.FindString(text); match != "" {
		email = match
	}

	for _, line := range strings.Split(text, "\n") {
		line = emailPattern.ReplaceAllString(line, "")
		line = strings.Trim(strings.TrimSpace(line), "|,;:-•")
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		if len(words) > maxNameWords {
			words = words[:maxNameWords]
		}
		name = strings.Join(words, " ")
		break
	}

	return name, email
}

// applyIdentity fills in name and email according to the strategy. Failed
// results keep their placeholders.
func applyIdentity(result *models.CandidateResult, strategy IdentityStrategy, rawText string) {
	if result.Failed() {
		return
	}

	name, email := ExtractLocalIdentity(rawText)

	if strategy == IdentityLocalHeuristic {
		result.CandidateName = name
		result.CandidateEmail = email
		return
	}

	if isPlaceholder(result.CandidateName, UnknownCandidateName) {
		result.CandidateName = name
	}
	if isPlaceholder(result.CandidateEmail, UnknownCandidateEmail) {
		result.CandidateEmail = email
	}
}

func isPlaceholder(value, placeholder string) bool {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "n/a", "na", "none", "null", "unknown", "name of the candidate", "candidate's email":
		return true
	}
	return v == placeholder
}
