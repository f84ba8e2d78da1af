package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestExtractLocalIdentity(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantName  string
		wantEmail string
	}{
		{"typical header", "\n\n  Jane Doe  \nSenior Engineer\njane.doe@example.com | +1 555", "Jane Doe", "jane.doe@example.com"},
		{"email on first line", "john@smith.io | John Smith\nBackend", "John Smith", "john@smith.io"},
		{"long first line capped", "Curriculum Vitae of a very experienced backend software engineer", "Curriculum Vitae of a very experienced", "N/A"},
		{"empty", "", "Unknown", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email := ExtractLocalIdentity(tt.text)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestApplyIdentity(t *testing.T) {
	raw := "Jane Doe\njane@x.com"

	modelValues := models.CandidateResult{CandidateName: "J. Doe", CandidateEmail: "jd@corp.com"}
	applyIdentity(&modelValues, IdentityModelSupplied, raw)
	assert.Equal(t, "J. Doe", modelValues.CandidateName)
	assert.Equal(t, "jd@corp.com", modelValues.CandidateEmail)

	placeholders := models.CandidateResult{CandidateName: "Unknown", CandidateEmail: "N/A"}
	applyIdentity(&placeholders, IdentityModelSupplied, raw)
	assert.Equal(t, "Jane Doe", placeholders.CandidateName)
	assert.Equal(t, "jane@x.com", placeholders.CandidateEmail)

	local := models.CandidateResult{CandidateName: "J. Doe", CandidateEmail: "jd@corp.com"}
	applyIdentity(&local, IdentityLocalHeuristic, raw)
	assert.Equal(t, "Jane Doe", local.CandidateName)
	assert.Equal(t, "jane@x.com", local.CandidateEmail)

	failed := models.CandidateResult{CandidateName: "Unknown", CandidateEmail: "N/A", Error: "boom"}
	applyIdentity(&failed, IdentityLocalHeuristic, raw)
	assert.Equal(t, "Unknown", failed.CandidateName)
}

func TestParseIdentityStrategy(t *testing.T) {
	assert.Equal(t, IdentityLocalHeuristic, ParseIdentityStrategy(" LOCAL "))
	assert.Equal(t, IdentityModelSupplied, ParseIdentityStrategy("model"))
	assert.Equal(t, IdentityModelSupplied, ParseIdentityStrategy("whatever"))
}
