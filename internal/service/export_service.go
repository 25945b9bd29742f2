package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/offline-learning-api/internal/analytics"
	"github.com/noah-isme/offline-learning-api/internal/models"
	"github.com/noah-isme/offline-learning-api/pkg/export"
)

// cohortSource computes per-student analytics for a selection.
type cohortSource interface {
	Snapshots(ctx context.Context, ids []string, grade string, now time.Time) ([]models.StudentAnalytics, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Format       models.ReportFormat
	Rows         int
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	source  cohortSource
	storage fileStorage
	csv     datasetRenderer
	pdf     datasetRenderer
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers default to the
// CSV and PDF exporters.
func NewExportService(source cohortSource, storage fileStorage, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source:  source,
		storage: storage,
		csv:     csv,
		pdf:     pdf,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Generate builds the dataset for the job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	now := s.now()
	members, err := s.source.Snapshots(ctx, job.Params.StudentIDs, job.Params.Grade, now)
	if err != nil {
		return nil, err
	}

	var dataset export.Dataset
	switch job.Type {
	case models.ReportTypeCohort:
		dataset = cohortDataset(members, job.Params.Grade, now)
	case models.ReportTypeRisk:
		dataset = riskDataset(members, job.Params.Grade)
	default:
		return nil, fmt.Errorf("unsupported report type %s", job.Type)
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, now), payload)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("report rendered",
		zap.String("job_id", job.ID),
		zap.String("path", relPath),
		zap.Int("rows", len(dataset.Rows)),
		zap.Int("bytes", len(payload)),
	)
	return &ExportResult{RelativePath: relPath, Format: job.Params.Format, Rows: len(dataset.Rows)}, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob, now time.Time) string {
	grade := job.Params.Grade
	if grade == "" {
		grade = "all"
	}
	return fmt.Sprintf("%s_grade-%s_%s_%s.%s",
		strings.ToLower(string(job.Type)),
		sanitizeFilename(grade),
		now.Format("20060102_150405"),
		shortID(job.ID),
		job.Params.Format,
	)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return sanitizeFilename(id)
}

func cohortDataset(members []models.StudentAnalytics, grade string, now time.Time) export.Dataset {
	cohort := analytics.Cohort(members, grade, now)
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.StudentID,
			m.StudentName,
			m.Grade,
			formatPercent(m.Attendance.AttendanceRate),
			formatPercent(m.LearningProgress.CompletionRate),
			formatPercent(m.LearningProgress.AverageScore),
			formatPercent(m.Assessments.AverageScore),
			formatPercent(analytics.CompositeScore(m)),
			string(m.Risk.RiskLevel),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Cohort Report: %s", cohort.Grade),
		Headers: []string{"Student ID", "Name", "Grade", "Attendance (%)", "Completion (%)", "Activity Avg", "Assessment Avg", "Composite", "Risk"},
		Rows:    rows,
		Notes: []string{
			fmt.Sprintf("Students: %d", cohort.TotalStudents),
			fmt.Sprintf("Average attendance: %s%%", formatPercent(cohort.AverageAttendanceRate)),
			fmt.Sprintf("Average completion: %s%%", formatPercent(cohort.AverageCompletionRate)),
			fmt.Sprintf("Average activity score: %s", formatPercent(cohort.AverageScore)),
			fmt.Sprintf("Average assessment score: %s", formatPercent(cohort.AverageAssessmentScore)),
			fmt.Sprintf("Risk distribution: high %d, medium %d, low %d",
				cohort.RiskDistribution[models.RiskHigh], cohort.RiskDistribution[models.RiskMedium], cohort.RiskDistribution[models.RiskLow]),
		},
	}
}

func riskDataset(members []models.StudentAnalytics, grade string) export.Dataset {
	sorted := make([]models.StudentAnalytics, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Risk.RiskLevel.Severity() > sorted[j].Risk.RiskLevel.Severity()
	})

	rows := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		rows = append(rows, []string{
			m.StudentID,
			m.StudentName,
			m.Grade,
			string(m.Risk.RiskLevel),
			strconv.FormatFloat(m.Risk.Confidence, 'f', 2, 64),
			string(m.Risk.Source),
			formatPercent(m.Features.AttendanceRate),
			formatPercent(m.Features.AvgScore),
			strings.Join(m.Risk.ContributingFactors, "; "),
		})
	}
	if grade == "" {
		grade = models.AllGradesLabel
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Risk Report: %s", grade),
		Headers: []string{"Student ID", "Name", "Grade", "Risk", "Confidence", "Source", "Attendance (%)", "Activity Avg", "Contributing Factors"},
		Rows:    rows,
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
