package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/offline-learning-api/internal/models"
)

type fakeSyllabusSrv struct {
	entries    []models.SyllabusEntry
	hit        bool
	plan       *models.SyllabusPlan
	err        error
	lastFilter models.SyllabusFilter
}

func (f *fakeSyllabusSrv) Catalog(_ context.Context, filter models.SyllabusFilter) ([]models.SyllabusEntry, bool, error) {
	f.lastFilter = filter
	return f.entries, f.hit, f.err
}

func (f *fakeSyllabusSrv) Plan(context.Context, string) (*models.SyllabusPlan, error) {
	return f.plan, f.err
}

func TestSyllabusHandlerCatalogCacheHit(t *testing.T) {
	srv := &fakeSyllabusSrv{
		entries: []models.SyllabusEntry{{ID: "syl-1", Subject: "Math", Grade: "5", Chapter: "Fractions"}},
		hit:     true,
	}
	handler := NewSyllabusHandler(srv)

	c, rec := newGinContext(http.MethodGet, "/syllabus?grade=5&subject=Math", nil)
	handler.Catalog(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SyllabusFilter{Grade: "5", Subject: "Math"}, srv.lastFilter)
	var entries []models.SyllabusEntry
	envelope := decodeData(t, rec, &entries)
	assert.Len(t, entries, 1)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestSyllabusHandlerPlan(t *testing.T) {
	handler := NewSyllabusHandler(&fakeSyllabusSrv{plan: &models.SyllabusPlan{StudentID: "s-1", Grade: "5"}})

	c, rec := newGinContext(http.MethodGet, "/syllabus/students/s-1", nil)
	c.AddParam("id", "s-1")
	handler.Plan(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var plan models.SyllabusPlan
	decodeData(t, rec, &plan)
	assert.Equal(t, "s-1", plan.StudentID)
}
