package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ensalamento-api/internal/scheduling"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
	"github.com/noah-isme/ensalamento-api/pkg/export"
	"github.com/noah-isme/ensalamento-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type gridSource interface {
	Grid(ctx context.Context, date scheduling.Date) (*scheduling.Grid, bool, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	// Retention is how long rendered files stay on disk. Defaults to the
	// signed URL TTL.
	Retention time.Duration
}

// ExportResult describes a rendered grid ready for download.
type ExportResult struct {
	ID        string        `json:"id"`
	Format    export.Format `json:"format"`
	Date      string        `json:"date"`
	URL       string        `json:"url"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ExportDownload is a resolved download token.
type ExportDownload struct {
	File        *os.File
	Filename    string
	ContentType string
}

// ExportService renders occupancy grids to CSV or PDF and hands out signed
// download links.
type ExportService struct {
	grids     gridSource
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[export.Format]renderer
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(grids gridSource, files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 && signer != nil {
		cfg.Retention = signer.TTL()
	}
	return &ExportService{
		grids:   grids,
		storage: files,
		signer:  signer,
		renderers: map[export.Format]renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
}

// ExportGrid renders the grid for date, stores the file and returns a signed URL.
func (s *ExportService) ExportGrid(ctx context.Context, date scheduling.Date, format export.Format) (*ExportResult, error) {
	render, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	grid, _, err := s.grids.Grid(ctx, date)
	if err != nil {
		return nil, err
	}

	payload, err := render.Render(GridDataset(grid))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("ensalamento_%s_%s.%s", date.String(), id[:8], format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		if delErr := s.storage.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to remove unsigned export", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export url")
	}
	s.metrics.IncExport(string(format))
	s.logger.Info("occupancy exported", zap.String("date", date.String()), zap.String("format", string(format)), zap.String("path", relPath))

	return &ExportResult{
		ID:        id,
		Format:    format,
		Date:      date.String(),
		URL:       s.downloadURL(token),
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveDownload validates a token and opens the file it points at.
func (s *ExportService) ResolveDownload(token string) (*ExportDownload, error) {
	signed, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download token")
	}
	file, err := s.storage.Open(signed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	contentType := export.FormatCSV.ContentType()
	if strings.HasSuffix(signed.Path, "."+string(export.FormatPDF)) {
		contentType = export.FormatPDF.ContentType()
	}
	return &ExportDownload{File: file, Filename: filepath.Base(signed.Path), ContentType: contentType}, nil
}

// Cleanup removes rendered files past the retention window.
func (s *ExportService) Cleanup() ([]string, error) {
	return s.storage.CleanupOlderThan(s.cfg.Retention)
}

// StartCleanup purges expired exports every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup()
				if err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/exports/download/%s", prefix, token)
}

// GridDataset lays out a grid as one row per classroom and one column per shift.
func GridDataset(grid *scheduling.Grid) export.Dataset {
	headers := []string{"Sala"}
	for _, shift := range scheduling.AllShifts() {
		headers = append(headers, string(shift))
	}
	data := export.Dataset{
		Title:   "Ensalamento",
		Headers: headers,
		Rows:    make([]map[string]string, 0),
	}
	if grid == nil {
		return data
	}
	data.Title = "Ensalamento " + grid.Date.String()
	counts := grid.Summary()
	data.Subtitle = fmt.Sprintf("%s: %d · %s: %d · %s: %d",
		scheduling.StatusFree, counts[scheduling.StatusFree],
		scheduling.StatusOccupied, counts[scheduling.StatusOccupied],
		scheduling.StatusMaintenance, counts[scheduling.StatusMaintenance])
	for _, row := range grid.Rows {
		record := map[string]string{"Sala": row.Classroom.Name}
		for _, cell := range row.Cells {
			record[string(cell.Shift)] = cellText(cell)
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func cellText(cell scheduling.Cell) string {
	switch cell.Status {
	case scheduling.StatusMaintenance:
		if cell.MaintenanceReason != "" {
			return string(cell.Status) + ": " + cell.MaintenanceReason
		}
		return string(cell.Status)
	case scheduling.StatusOccupied:
		labels := make([]string, 0, len(cell.Items))
		for _, item := range cell.Items {
			labels = append(labels, item.Label)
		}
		return strings.Join(labels, " / ")
	default:
		return string(cell.Status)
	}
}
