package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRepositoryAttendance(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, date, present, subject FROM attendance WHERE student_id = $1")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "date", "present", "subject"}).
			AddRow("a-1", "s-1", time.Now(), true, "Math").
			AddRow("a-2", "s-1", nil, false, nil))

	records, err := repo.Attendance(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Present)
	assert.Nil(t, records[1].Date)
	assert.Nil(t, records[1].Subject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryActivitiesJoinSyllabus(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	start := time.Now().Add(-time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM learning_activities la LEFT JOIN syllabus s ON s.id = la.syllabus_id WHERE la.student_id = $1")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "syllabus_id", "subject", "start_time", "end_time", "duration", "completed", "score"}).
			AddRow("act-1", "s-1", "syl-1", "Math", start, time.Now(), 60, true, 88.5).
			AddRow("act-2", "s-1", nil, nil, nil, nil, nil, false, nil))

	records, err := repo.Activities(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Subject)
	assert.Equal(t, "Math", *records[0].Subject)
	assert.Equal(t, 88.5, *records[0].Score)
	assert.Nil(t, records[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryAssessments(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, subject, chapter, score, max_score, date, time_taken FROM assessments WHERE student_id = $1")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "subject", "chapter", "score", "max_score", "date", "time_taken"}).
			AddRow("as-1", "s-1", "Math", "Fractions", 18.0, 20.0, time.Now(), 25))

	records, err := repo.Assessments(context.Background(), "s-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	pct, ok := records[0].Percentage()
	assert.True(t, ok)
	assert.Equal(t, 90.0, pct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryWrapsErrors(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	boom := errors.New("connection refused")
	mock.ExpectQuery("FROM assessments").WillReturnError(boom)

	_, err := repo.Assessments(context.Background(), "s-1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list assessments")
}

func TestRecordRepositoryCompletedSyllabusIDs(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT syllabus_id FROM learning_activities WHERE student_id = $1 AND completed = TRUE")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows([]string{"syllabus_id"}).AddRow("syl-1").AddRow("syl-3"))

	ids, err := repo.CompletedSyllabusIDs(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"syl-1", "syl-3"}, ids)
}
