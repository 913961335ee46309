package export

import (
	"context"
	"fmt"
	"time"

	"stillhouse/domain"
	"stillhouse/internal/utils/storage"
	"stillhouse/pkg/logbook"

	"go.uber.org/zap"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type (
	ExportService interface {
		Export(ctx context.Context, userID string, req domain.ExportRequest) (domain.ExportResult, error)
	}

	exportService struct {
		logbookService logbook.LogbookService
		s3             storage.AwsS3
		logger         *zap.Logger
		now            func() time.Time
	}
)

// NewExportService exports the log table. s3 may be nil, in which case
// uploads fail with ErrStorageUnavailable.
func NewExportService(logbookService logbook.LogbookService, s3 storage.AwsS3, logger *zap.Logger) ExportService {
	return &exportService{
		logbookService: logbookService,
		s3:             s3,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, userID string, req domain.ExportRequest) (domain.ExportResult, error) {
	format := req.Format
	if format == "" {
		format = domain.ExportFormatPDF
	}
	if format != domain.ExportFormatPDF && format != domain.ExportFormatXLSX {
		return domain.ExportResult{}, domain.ErrUnsupportedExportFormat
	}
	if req.Upload && s.s3 == nil {
		return domain.ExportResult{}, domain.ErrStorageUnavailable
	}

	entries, title, err := s.entries(ctx, userID, req.Page)
	if err != nil {
		return domain.ExportResult{}, err
	}

	res := domain.ExportResult{
		FileName: fmt.Sprintf("distillery-logs-%s.%s", s.now().Format("2006-01-02"), format),
	}
	switch format {
	case domain.ExportFormatPDF:
		res.ContentType = contentTypePDF
		res.Body, err = RenderPDF(title, entries)
	case domain.ExportFormatXLSX:
		res.ContentType = contentTypeXLSX
		res.Body, err = RenderXLSX(entries)
	}
	if err != nil {
		return domain.ExportResult{}, fmt.Errorf("render %s: %w", format, err)
	}

	if !req.Upload {
		return res, nil
	}

	key, err := s.s3.UploadFile(ctx, res.FileName, res.Body, "exports/"+userID, res.ContentType, storage.AllowExport...)
	if err != nil {
		s.logger.Error("failed to upload export", zap.String("user_id", userID), zap.Error(err))
		return domain.ExportResult{}, err
	}
	res.URL = s.s3.GetPublicLinkKey(key)
	res.Body = nil
	return res, nil
}

func (s *exportService) entries(ctx context.Context, userID string, page int) ([]domain.LogEntry, string, error) {
	if page > 0 {
		p, err := s.logbookService.GetLogs(ctx, userID, page)
		if err != nil {
			return nil, "", err
		}
		return p.Entries, fmt.Sprintf("Distillery logs, page %d of %d", p.Page, max(p.TotalPages, 1)), nil
	}

	all, err := s.logbookService.GetAllLogs(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return all, "Distillery logs", nil
}
