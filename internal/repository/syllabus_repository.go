package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

// SyllabusRepository reads the syllabus catalog.
type SyllabusRepository struct {
	db *sqlx.DB
}

// NewSyllabusRepository constructs a SyllabusRepository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// Catalog lists syllabus entries by subject and chapter.
func (r *SyllabusRepository) Catalog(ctx context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntry, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, filter.Grade)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}

	query := fmt.Sprintf(`SELECT id, subject, grade, chapter, topic, difficulty_level, estimated_time, learning_outcomes
FROM syllabus WHERE %s ORDER BY subject ASC, chapter ASC, id ASC`, strings.Join(conditions, " AND "))

	var entries []models.SyllabusEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list syllabus: %w", err)
	}
	return entries, nil
}
