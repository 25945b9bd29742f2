package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/pkg/export"
	"github.com/noah-isme/offline-learning-api/pkg/storage"
)

type capturingRenderer struct {
	dataset export.Dataset
}

func (c *capturingRenderer) Render(data export.Dataset) ([]byte, error) {
	c.dataset = data
	return []byte("ok"), nil
}

func newTestExporter(t *testing.T, csv, pdf datasetRenderer) *ExportService {
	t.Helper()
	analyticsSvc, _, _ := seededAnalytics(10)
	fs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(analyticsSvc, fs, ExportConfig{}, nil, csv, pdf)
	svc.now = func() time.Time { return refNow }
	return svc
}

func TestExportRiskDatasetOrdersBySeverity(t *testing.T) {
	renderer := &capturingRenderer{}
	svc := newTestExporter(t, renderer, nil)

	result, err := svc.Generate(context.Background(), &models.ReportJob{
		ID:     "0f5c2a9e-1111-2222-3333-444455556666",
		Type:   models.ReportTypeRisk,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, "risk_grade-all_20240315_120000_0f5c2a9e.csv", result.RelativePath)

	ds := renderer.dataset
	assert.Equal(t, "Risk Report: All Grades", ds.Title)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"s-weak", "high"}, []string{ds.Rows[0][0], ds.Rows[0][3]})
	assert.Equal(t, "medium", ds.Rows[1][3])
	assert.Equal(t, "low", ds.Rows[2][3])
	assert.Equal(t, "0.70", ds.Rows[0][4])
	assert.Contains(t, ds.Rows[0][8], "Attendance rate is 30% (below 75%)")
}

func TestExportCohortDatasetNotes(t *testing.T) {
	renderer := &capturingRenderer{}
	svc := newTestExporter(t, nil, renderer)

	_, err := svc.Generate(context.Background(), &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeCohort,
		Params: models.ReportJobParams{Grade: "5", Format: models.ReportFormatPDF},
	})
	require.NoError(t, err)

	ds := renderer.dataset
	assert.Equal(t, "Cohort Report: 5", ds.Title)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "100.00", ds.Rows[0][3])
	assert.Contains(t, ds.Notes, "Students: 2")
	assert.Contains(t, ds.Notes, "Average attendance: 65.00%")
	assert.Contains(t, ds.Notes, "Risk distribution: high 1, medium 0, low 1")
}

func TestExportRendersRealPDF(t *testing.T) {
	svc := newTestExporter(t, nil, nil)

	result, err := svc.Generate(context.Background(), &models.ReportJob{
		ID:     "job-2",
		Type:   models.ReportTypeCohort,
		Params: models.ReportJobParams{Format: models.ReportFormatPDF},
	})
	require.NoError(t, err)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	head := make([]byte, 5)
	_, err = file.Read(head)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte("%PDF-"), head))
}

func TestExportRejectsUnknownType(t *testing.T) {
	svc := newTestExporter(t, nil, nil)

	_, err := svc.Generate(context.Background(), &models.ReportJob{
		Type:   "attendance",
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	})
	assert.Error(t, err)

	_, err = svc.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "grade_5-a", sanitizeFilename("grade 5/a"))
}
