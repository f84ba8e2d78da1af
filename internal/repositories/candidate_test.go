package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestCandidateCreateBatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	sessionID := uuid.New()
	records := []models.CandidateRecord{
		models.NewCandidateRecord(sessionID, 1, models.CandidateResult{Index: 1, FitScore: 90, Decision: models.Fit, MatchedSkills: []string{"Go"}}),
		models.NewCandidateRecord(sessionID, 2, models.CandidateResult{Index: 0, FitScore: 10, Error: "no text could be extracted"}),
	}

	mock.ExpectQuery(`INSERT INTO "candidate_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(records[0].ID.String()).
			AddRow(records[1].ID.String()))

	require.NoError(t, repo.CreateBatch(records))
}

func TestCandidateCreateBatchEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewCandidateRepository(db)

	assert.NoError(t, repo.CreateBatch(nil))
}

func TestCandidateFindBySession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	sessionID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "session_id", "position", "rank", "candidate_name", "fit_score", "fit", "matched_skills"}).
		AddRow(uuid.New().String(), sessionID.String(), 2, 1, "Jane", 88, true, []byte(`["Go","SQL"]`)).
		AddRow(uuid.New().String(), sessionID.String(), 0, 2, "Bob", 40, false, []byte(`[]`))
	mock.ExpectQuery(`SELECT \* FROM "candidate_records" WHERE session_id = \$1 ORDER BY rank ASC`).
		WithArgs(sessionID).
		WillReturnRows(rows)

	records, err := repo.FindBySession(sessionID)

	require.NoError(t, err)
	require.Len(t, records, 2)
	first := records[0].Result()
	assert.Equal(t, "Jane", first.CandidateName)
	assert.Equal(t, 2, first.Index)
	assert.Equal(t, models.Fit, first.Decision)
	assert.Equal(t, []string{"Go", "SQL"}, first.MatchedSkills)
}

func TestCandidateFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "candidate_records" WHERE id = \$1 AND session_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCandidateSaveInterview(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(`UPDATE "candidate_records" SET "interview_qa"=\$1 WHERE id = \$2`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveInterview(uuid.New(), models.InterviewQA{Items: []models.QAPair{{Question: "Q", Answer: "A"}}})

	require.NoError(t, err)
}

func TestCandidateDeleteBySession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	sessionID := uuid.New()
	mock.ExpectExec(`DELETE FROM "candidate_records" WHERE session_id = \$1`).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteBySession(sessionID))
}

func TestCandidateDeleteBySessionNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCandidateRepository(db)

	mock.ExpectExec(`DELETE FROM "candidate_records"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteBySession(uuid.New()))
}
