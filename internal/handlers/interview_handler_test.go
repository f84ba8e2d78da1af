package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"alfredoptarigan/resume-screener/internal/models"
)

type fakeGenerator struct {
	qa    models.InterviewQA
	calls int
	got   []string
}

func (f *fakeGenerator) Generate(_ context.Context, _, _ string, skills []string) models.InterviewQA {
	f.calls++
	f.got = skills
	return f.qa
}

func interviewApp(sessions *memSessionRepo, candidates *memCandidateRepo, gen *fakeGenerator) *fiber.App {
	h := NewInterviewHandler(sessions, candidates, gen)
	return newTestApp(func(api fiber.Router) {
		api.Post("/screenings/:id/candidates/:candidateId/interview", h.HandleGenerate)
	})
}

func interviewPath(sessionID, candidateID uuid.UUID, query string) string {
	return "/api/v1/screenings/" + sessionID.String() + "/candidates/" + candidateID.String() + "/interview" + query
}

func TestInterviewGeneratesAndStores(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	target := candidates.records[0]
	gen := &fakeGenerator{qa: models.InterviewQA{Items: []models.QAPair{{Question: "Explain goroutines", Answer: "Lightweight threads"}}}}

	app := interviewApp(newMemSessionRepo(session), candidates, gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, target.ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body interviewResponse
	decodeBody(t, resp, &body)
	assert.False(t, body.Cached)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Explain goroutines", body.Items[0].Question)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, []string{"Go", "SQL"}, gen.got)
	assert.Contains(t, candidates.interviews, target.ID)
}

func TestInterviewServesCachedQuestions(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	candidates.records[0].InterviewQA = datatypes.JSON(`{"items":[{"question":"Cached?","answer":"Yes"}]}`)
	target := candidates.records[0]
	gen := &fakeGenerator{qa: models.InterviewQA{Items: []models.QAPair{{Question: "Fresh", Answer: "Fresh"}}}}

	app := interviewApp(newMemSessionRepo(session), candidates, gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, target.ID, ""), nil))
	require.NoError(t, err)

	var body interviewResponse
	decodeBody(t, resp, &body)
	assert.True(t, body.Cached)
	assert.Equal(t, "Cached?", body.Items[0].Question)
	assert.Zero(t, gen.calls)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, target.ID, "?refresh=true"), nil))
	require.NoError(t, err)

	decodeBody(t, resp, &body)
	assert.False(t, body.Cached)
	assert.Equal(t, "Fresh", body.Items[0].Question)
	assert.Equal(t, 1, gen.calls)
}

func TestInterviewRequiresMatchedSkills(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	gen := &fakeGenerator{}

	app := interviewApp(newMemSessionRepo(session), candidates, gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, candidates.records[1].ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, gen.calls)
}

func TestInterviewGenerationFailure(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	gen := &fakeGenerator{qa: models.InterviewQA{Items: []models.QAPair{}, Error: "model unavailable"}}

	app := interviewApp(newMemSessionRepo(session), candidates, gen)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, candidates.records[0].ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "model unavailable", body["error"])
	assert.Empty(t, candidates.interviews)
}

func TestInterviewUnknownCandidate(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	other := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(other.ID)

	app := interviewApp(newMemSessionRepo(session, other), candidates, &fakeGenerator{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, interviewPath(session.ID, candidates.records[0].ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/screenings/"+session.ID.String()+"/candidates/nope/interview", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
