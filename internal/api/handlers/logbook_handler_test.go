package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"stillhouse/domain"
	"stillhouse/pkg/logbook"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogbook struct {
	logbook.LogbookService
	err error
}

func (f *fakeLogbook) GetLogs(_ context.Context, _ string, page int) (domain.LogPage, error) {
	if f.err != nil {
		return domain.LogPage{}, f.err
	}
	return domain.LogPage{Entries: []domain.LogEntry{}, Page: page, PageSize: 20}, nil
}

type fakeExporter struct {
	calls []domain.ExportRequest
	err   error
}

func (f *fakeExporter) Export(_ context.Context, _ string, req domain.ExportRequest) (domain.ExportResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return domain.ExportResult{}, f.err
	}
	res := domain.ExportResult{
		FileName:    "logs." + req.Format,
		ContentType: "application/octet-stream",
		Body:        []byte("file-body"),
	}
	if req.Upload {
		res.URL = "https://bucket.example/exports/logs." + req.Format
	}
	return res, nil
}

func newLogbookApp(logs *fakeLogbook, exporter *fakeExporter) *fiber.App {
	h := NewLogbookHandler(logs, exporter, newValidator())
	app := newTestApp("u1")
	app.Get("/logs", h.GetLogs)
	app.Get("/logs/export", h.Export)
	return app
}

func TestGetLogsPassesPage(t *testing.T) {
	app := newLogbookApp(&fakeLogbook{}, &fakeExporter{})

	resp := do(t, app, fiber.MethodGet, "/logs?page=3", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page domain.LogPage
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &page))
	assert.Equal(t, 3, page.Page)
}

func TestGetLogsInvalidPage(t *testing.T) {
	app := newLogbookApp(&fakeLogbook{err: domain.ErrInvalidPage}, &fakeExporter{})

	resp := do(t, app, fiber.MethodGet, "/logs?page=0", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestExportSendsFile(t *testing.T) {
	exporter := &fakeExporter{}
	app := newLogbookApp(&fakeLogbook{}, exporter)

	resp := do(t, app, fiber.MethodGet, "/logs/export?format=xlsx&page=2", "")
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="logs.xlsx"`, resp.Header.Get(fiber.HeaderContentDisposition))
	assert.Equal(t, "application/octet-stream", resp.Header.Get(fiber.HeaderContentType))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "file-body", string(raw))
	assert.Equal(t, []domain.ExportRequest{{Format: "xlsx", Page: 2}}, exporter.calls)
}

func TestExportUploadReturnsLink(t *testing.T) {
	exporter := &fakeExporter{}
	app := newLogbookApp(&fakeLogbook{}, exporter)

	resp := do(t, app, fiber.MethodGet, "/logs/export?format=pdf&upload=true", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var res domain.ExportResult
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &res))
	assert.Equal(t, "https://bucket.example/exports/logs.pdf", res.URL)
	assert.Equal(t, []domain.ExportRequest{{Format: "pdf", Upload: true}}, exporter.calls)
}

func TestExportStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
		called bool
	}{
		{"unknown format", "/logs/export?format=csv", nil, fiber.StatusBadRequest, false},
		{"negative page", "/logs/export?page=-1", nil, fiber.StatusBadRequest, false},
		{"page past the end", "/logs/export?page=9", fmt.Errorf("%w: 9", domain.ErrInvalidPage), fiber.StatusBadRequest, true},
		{"no storage", "/logs/export?upload=true", domain.ErrStorageUnavailable, fiber.StatusServiceUnavailable, true},
		{"render failure", "/logs/export", errors.New("disk full"), fiber.StatusInternalServerError, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exporter := &fakeExporter{err: tc.err}
			app := newLogbookApp(&fakeLogbook{}, exporter)

			resp := do(t, app, fiber.MethodGet, tc.target, "")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.False(t, decode(t, resp).Status)
			assert.Equal(t, tc.called, len(exporter.calls) == 1)
		})
	}
}
