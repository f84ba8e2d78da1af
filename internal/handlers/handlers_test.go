package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type memSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*models.ScreeningSession
	createErr error
}

func newMemSessionRepo(sessions ...*models.ScreeningSession) *memSessionRepo {
	repo := &memSessionRepo{sessions: map[uuid.UUID]*models.ScreeningSession{}}
	for _, s := range sessions {
		repo.sessions[s.ID] = s
	}
	return repo
}

func (m *memSessionRepo) Create(s *models.ScreeningSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessionRepo) FindByID(id uuid.UUID) (*models.ScreeningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return s, nil
}

func (m *memSessionRepo) UpdateStatus(id uuid.UUID, status models.SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id].Status = status
	return nil
}

func (m *memSessionRepo) Complete(id uuid.UUID, data *repositories.SessionResultData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id].Status = models.StatusCompleted
	return nil
}

func (m *memSessionRepo) UpdateError(id uuid.UUID, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessions[id]
	s.Status = models.StatusFailed
	s.ErrorMessage = &msg
	return nil
}

func (m *memSessionRepo) FindStale(time.Time, int) ([]models.ScreeningSession, error) {
	return nil, nil
}

func (m *memSessionRepo) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

type memCandidateRepo struct {
	mu         sync.Mutex
	records    []models.CandidateRecord
	interviews map[uuid.UUID]models.InterviewQA
}

func (m *memCandidateRepo) CreateBatch(records []models.CandidateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *memCandidateRepo) FindBySession(sessionID uuid.UUID) ([]models.CandidateRecord, error) {
	var out []models.CandidateRecord
	for _, r := range m.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memCandidateRepo) FindByID(sessionID, id uuid.UUID) (*models.CandidateRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id && m.records[i].SessionID == sessionID {
			rec := m.records[i]
			return &rec, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memCandidateRepo) SaveInterview(id uuid.UUID, qa models.InterviewQA) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.interviews == nil {
		m.interviews = map[uuid.UUID]models.InterviewQA{}
	}
	m.interviews[id] = qa
	return nil
}

func (m *memCandidateRepo) DeleteBySession(sessionID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []models.CandidateRecord
	for _, r := range m.records {
		if r.SessionID != sessionID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

type fakeWorker struct {
	jobs []*services.ScreeningJob
	err  error
}

func (f *fakeWorker) Start(context.Context) {}
func (f *fakeWorker) Stop()                 {}

func (f *fakeWorker) EnqueueJob(job *services.ScreeningJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func newTestApp(register func(api fiber.Router)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	register(app.Group("/api/v1"))
	return app
}

func completedSession(mode models.ScreeningMode) *models.ScreeningSession {
	return &models.ScreeningSession{
		ID:             uuid.New(),
		UserEmail:      "hr@corp.com",
		JobDescription: "Senior Go engineer with SQL experience",
		Mode:           mode,
		Status:         models.StatusCompleted,
		FitCount:       1,
		Total:          2,
	}
}

type upload struct {
	field       string
	filename    string
	contentType string
	body        string
}

func multipartRequest(t *testing.T, url string, fields map[string]string, files []upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
