package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

var studentCols = []string{"id", "name", "age", "grade", "village", "school", "contact", "learning_style", "last_sync"}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, age, grade, village, school, contact, learning_style, last_sync FROM students WHERE id = $1")).
		WithArgs("s-1").
		WillReturnRows(sqlmock.NewRows(studentCols).AddRow("s-1", "Asha", 11, "5", "Rampur", "GPS Rampur", "", "visual", time.Now()))

	student, err := repo.FindByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", student.Name)
	require.NotNil(t, student.Age)
	assert.Equal(t, 11, *student.Age)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students WHERE id = \\$1").WithArgs("nope").WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 AND grade = $1 AND id = ANY($2) ORDER BY id LIMIT 11")).
		WithArgs("5", pq.Array([]string{"s-1", "s-2"})).
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow("s-1", "Asha", nil, "5", "Rampur", "", "", "", nil).
			AddRow("s-2", "Ravi", nil, "5", "Rampur", "", "", "", nil))

	students, err := repo.List(context.Background(), models.StudentFilter{Grade: "5", IDs: []string{"s-1", "s-2"}, Limit: 11})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Nil(t, students[0].Age)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE 1=1 ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(studentCols))

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
