package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// RecordRepository reads the raw attendance, activity and assessment streams
// the analytics pipeline consumes.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Attendance lists a student's attendance marks, oldest first.
func (r *RecordRepository) Attendance(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, student_id, date, present, subject
FROM attendance WHERE student_id = $1 ORDER BY date ASC NULLS LAST, id ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Activities lists a student's learning activities joined to their syllabus
// subject. Activities without a syllabus row carry a nil subject.
func (r *RecordRepository) Activities(ctx context.Context, studentID string) ([]models.ActivityRecord, error) {
	const query = `SELECT la.id, la.student_id, la.syllabus_id, s.subject, la.start_time, la.end_time, la.duration, la.completed, la.score
FROM learning_activities la
LEFT JOIN syllabus s ON s.id = la.syllabus_id
WHERE la.student_id = $1 ORDER BY la.start_time ASC NULLS LAST, la.id ASC`
	var records []models.ActivityRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return records, nil
}

// Assessments lists a student's graded assessments, oldest first.
func (r *RecordRepository) Assessments(ctx context.Context, studentID string) ([]models.AssessmentRecord, error) {
	const query = `SELECT id, student_id, subject, chapter, score, max_score, date, time_taken
FROM assessments WHERE student_id = $1 ORDER BY date ASC NULLS LAST, id ASC`
	var records []models.AssessmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return records, nil
}

// CompletedSyllabusIDs returns the syllabus items a student has completed.
func (r *RecordRepository) CompletedSyllabusIDs(ctx context.Context, studentID string) ([]string, error) {
	const query = `SELECT DISTINCT syllabus_id FROM learning_activities
WHERE student_id = $1 AND completed = TRUE AND syllabus_id IS NOT NULL`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("list completed syllabus: %w", err)
	}
	return ids, nil
}
