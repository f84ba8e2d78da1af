package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type fakeIndex struct {
	similar   []models.SimilarCandidate
	err       error
	lastLimit int
	lastID    uuid.UUID
	deleted   []uuid.UUID
	deleteErr error
}

func (f *fakeIndex) InitCollection(context.Context) error { return nil }

func (f *fakeIndex) IndexCandidate(context.Context, uuid.UUID, uuid.UUID, string) error { return nil }

func (f *fakeIndex) FindSimilar(_ context.Context, candidateID uuid.UUID, _ string, limit int) ([]models.SimilarCandidate, error) {
	f.lastID = candidateID
	f.lastLimit = limit
	return f.similar, f.err
}

func (f *fakeIndex) DeleteSession(_ context.Context, sessionID uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func similarApp(sessions repositories.SessionRepository, candidates repositories.CandidateRepository, index services.CandidateIndex) *fiber.App {
	h := NewSimilarHandler(sessions, candidates, index)
	return newTestApp(func(api fiber.Router) {
		api.Get("/screenings/:id/candidates/:candidateId/similar", h.HandleSimilar)
	})
}

func similarPath(sessionID, candidateID uuid.UUID, query string) string {
	return "/api/v1/screenings/" + sessionID.String() + "/candidates/" + candidateID.String() + "/similar" + query
}

func TestSimilarDisabledIndex(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)

	app := similarApp(newMemSessionRepo(session), candidates, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, similarPath(session.ID, candidates.records[0].ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, services.ErrIndexDisabled.Error(), body["error"])
}

func TestSimilarReturnsMatches(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	target := candidates.records[0]
	index := &fakeIndex{similar: []models.SimilarCandidate{
		{CandidateID: uuid.NewString(), SessionID: uuid.NewString(), Score: 0.91, Excerpt: "Go and SQL"},
	}}

	app := similarApp(newMemSessionRepo(session), candidates, index)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, similarPath(session.ID, target.ID, "?limit=3"), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		CandidateID string                    `json:"candidate_id"`
		Similar     []models.SimilarCandidate `json:"similar"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, target.ID.String(), body.CandidateID)
	require.Len(t, body.Similar, 1)
	assert.Equal(t, "Go and SQL", body.Similar[0].Excerpt)
	assert.Equal(t, 3, index.lastLimit)
	assert.Equal(t, target.ID, index.lastID)
}

func TestSimilarClampsLimit(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	index := &fakeIndex{}

	app := similarApp(newMemSessionRepo(session), candidates, index)

	tests := []struct {
		query string
		want  int
	}{
		{"", 5},
		{"?limit=0", 1},
		{"?limit=500", maxSimilarLimit},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, similarPath(session.ID, candidates.records[0].ID, tt.query), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, tt.want, index.lastLimit, tt.query)
	}
}

func TestSimilarSearchFailure(t *testing.T) {
	session := completedSession(models.ModeEvaluation)
	candidates := seededCandidates(session.ID)
	index := &fakeIndex{err: errors.New("qdrant unavailable")}

	app := similarApp(newMemSessionRepo(session), candidates, index)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, similarPath(session.ID, candidates.records[0].ID, ""), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
