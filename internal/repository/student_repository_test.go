package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestStudentCreateReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Ada", "ada@example.edu", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	student := &models.Student{Name: "Ada", Email: "ada@example.edu", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(11), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_email_key"})

	err := repo.Create(context.Background(), &models.Student{Name: "Ada", Email: "ada@example.edu"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentFindCredentialByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash FROM students WHERE email = $1 LIMIT 1")).
		WithArgs("ada@example.edu").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash"}).AddRow(int64(3), "Ada", "ada@example.edu", "hash"))

	cred, err := repo.FindCredentialByEmail(context.Background(), "ada@example.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(3), cred.ID)
	assert.Equal(t, "hash", cred.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentUpdateFieldsWritesOnlyGivenColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET bio = $1, dob = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("hello", nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), 7, map[string]interface{}{"dob": nil, "bio": "hello"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentUpdateFieldsRejectsUnknownColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	err := repo.UpdateFields(context.Background(), 7, map[string]interface{}{"password_hash": "x"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentUpdateFieldsMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(context.Background(), 7, map[string]interface{}{"bio": ""})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentUpdateFieldsEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	require.NoError(t, repo.UpdateFields(context.Background(), 7, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	mock.ExpectQuery("INSERT INTO professors").
		WithArgs("Grace", "grace@example.edu", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Professor{Name: "Grace", Email: "grace@example.edu", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessorUpdateFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewProfessorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE professors SET department = $1, name = $2, updated_at = NOW() WHERE id = $3")).
		WithArgs("Physics", "Grace", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), 2, map[string]interface{}{"name": "Grace", "department": "Physics"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrapLeavesOtherDriverErrorsWrapped(t *testing.T) {
	err := wrap("op", &pq.Error{Code: "23503"})
	assert.NotErrorIs(t, err, ErrUniqueViolation)
	assert.Contains(t, err.Error(), "op:")
	assert.NoError(t, wrap("op", nil))
}
