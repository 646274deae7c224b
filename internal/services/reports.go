package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"tenantdesk/internal/domain"
	"tenantdesk/internal/storage"
)

var ErrReportNotFound = errors.New("report not found")

type ReportObserver interface {
	ReportGenerated(succeeded bool)
}

type SharedReport struct {
	Report    domain.Report `json:"report"`
	URL       string        `json:"url"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// ReportService produces tenant verification PDFs, keeps them on disk and
// hands out signed links to them.
type ReportService struct {
	pdf      *PDFService
	share    *ShareService
	files    *storage.FileManager
	store    storage.Store
	observer ReportObserver
	logger   *slog.Logger
}

func NewReportService(pdf *PDFService, share *ShareService, files *storage.FileManager, store storage.Store, observer ReportObserver, logger *slog.Logger) *ReportService {
	return &ReportService{pdf: pdf, share: share, files: files, store: store, observer: observer, logger: logger}
}

// Create validates the form, writes the PDF and returns a signed link to it.
func (r *ReportService) Create(v domain.TenantVerification) (SharedReport, error) {
	if err := domain.ValidateTenantVerification(v); err != nil {
		return SharedReport{}, err
	}

	id := uuid.NewString()
	path := r.files.ReportPath(id)

	name, err := r.pdf.WriteVerificationReport(v, path)
	r.observer.ReportGenerated(err == nil)
	if err != nil {
		r.logger.Error("verification report failed", "report_id", id, "error", err)
		return SharedReport{}, err
	}

	report := domain.Report{ID: id, FileName: name, Path: path, CreatedAt: time.Now().Unix()}
	meta, err := json.Marshal(report)
	if err != nil {
		r.files.RemoveReport(id)
		return SharedReport{}, fmt.Errorf("encode report: %w", err)
	}
	if err := r.store.Put(storage.ReportKey(id), meta); err != nil {
		r.files.RemoveReport(id)
		return SharedReport{}, fmt.Errorf("store report %s: %w", id, err)
	}

	url, expiresAt := r.share.Generate(id)
	r.logger.Info("verification report stored", "report_id", id, "file", name)
	return SharedReport{Report: report, URL: url, ExpiresAt: expiresAt.UTC()}, nil
}

// Stream validates the form and writes the PDF straight to w.
func (r *ReportService) Stream(w io.Writer, v domain.TenantVerification) (string, error) {
	if err := domain.ValidateTenantVerification(v); err != nil {
		return "", err
	}

	name, err := r.pdf.RenderVerificationReport(w, v)
	r.observer.ReportGenerated(err == nil)
	if err != nil {
		r.logger.Error("verification report failed", "error", err)
		return "", err
	}
	return name, nil
}

// Open returns a stored report whose file is still on disk.
func (r *ReportService) Open(id string) (domain.Report, error) {
	raw, err := r.store.Get(storage.ReportKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Report{}, fmt.Errorf("%s: %w", id, ErrReportNotFound)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("read report %s: %w", id, err)
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %s: %w", id, ErrReportNotFound)
	}
	report.Path = r.files.ReportPath(id)

	if _, err := os.Stat(report.Path); err != nil {
		return domain.Report{}, fmt.Errorf("%s file missing: %w", id, ErrReportNotFound)
	}
	return report, nil
}
