package domain

import "errors"

const (
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
)

var (
	MessageSuccessExport = "logs exported successfully"
	MessageFailedExport  = "failed to export logs"

	ErrUnsupportedExportFormat = errors.New("export format must be pdf or xlsx")
	ErrStorageUnavailable      = errors.New("file storage is not configured")
)

type (
	ExportRequest struct {
		Format string `query:"format" validate:"omitempty,oneof=pdf xlsx"`
		Page   int    `query:"page" validate:"gte=0"`
		Upload bool   `query:"upload"`
	}

	ExportResult struct {
		FileName    string `json:"file_name"`
		ContentType string `json:"content_type"`
		URL         string `json:"url,omitempty"`
		Body        []byte `json:"-"`
	}
)
