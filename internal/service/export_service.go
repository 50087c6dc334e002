package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/attendance-api/internal/models"
	appErrors "github.com/noah-isme/attendance-api/pkg/errors"
	"github.com/noah-isme/attendance-api/pkg/export"
)

type studentRecordSource interface {
	StudentRecords(ctx context.Context, req StudentReportRequest) ([]models.Attendance, models.AttendanceTally, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportFile is a rendered report ready to be sent to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders per-student attendance reports as downloadable files.
type ExportService struct {
	source    studentRecordSource
	renderers map[models.ReportFormat]renderer
	logger    *zap.Logger
}

// NewExportService constructs the export service with CSV and PDF renderers.
func NewExportService(source studentRecordSource, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source: source,
		renderers: map[models.ReportFormat]renderer{
			models.ReportFormatCSV: csv,
			models.ReportFormatPDF: pdf,
		},
		logger: logger,
	}
}

// StudentReport renders the student's records and summary in the requested format.
func (s *ExportService) StudentReport(ctx context.Context, req StudentReportRequest, format string) (*ExportFile, error) {
	f := models.ReportFormat(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = models.ReportFormatCSV
	}
	r, ok := s.renderers[f]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of [csv pdf]")
	}

	records, tally, err := s.source.StudentRecords(ctx, req)
	if err != nil {
		return nil, err
	}

	rollNo := strings.TrimSpace(req.RollNo)
	content, err := r.Render(buildStudentDataset(rollNo, req, records, tally))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Debug("report exported", zap.String("roll_no", rollNo), zap.String("format", string(f)), zap.Int("bytes", len(content)))

	return &ExportFile{
		Filename:    fmt.Sprintf("attendance_%s.%s", sanitizeFilename(rollNo), f),
		ContentType: r.ContentType(),
		Content:     content,
	}, nil
}

func buildStudentDataset(rollNo string, req StudentReportRequest, records []models.Attendance, tally models.AttendanceTally) export.Dataset {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{record.Date, string(record.Status)})
	}
	period := "all dates"
	if req.StartDate != "" || req.EndDate != "" {
		period = fmt.Sprintf("%s to %s", orOpen(req.StartDate), orOpen(req.EndDate))
	}
	return export.Dataset{
		Title: "Attendance report " + rollNo,
		Summary: []export.Field{
			{Label: "Student", Value: rollNo},
			{Label: "Period", Value: period},
			{Label: "Total days", Value: strconv.Itoa(tally.Total)},
			{Label: "Present days", Value: strconv.Itoa(tally.Present)},
			{Label: "Attendance", Value: tally.Percentage},
		},
		Headers: []string{"Date", "Status"},
		Rows:    rows,
	}
}

func orOpen(date string) string {
	if strings.TrimSpace(date) == "" {
		return "open"
	}
	return strings.TrimSpace(date)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
