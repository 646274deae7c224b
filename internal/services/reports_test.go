package services

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"tenantdesk/internal/config"
	"tenantdesk/internal/domain"
	"tenantdesk/internal/storage"
)

type reportCounter struct {
	ok, failed int
}

func (c *reportCounter) ReportGenerated(succeeded bool) {
	if succeeded {
		c.ok++
		return
	}
	c.failed++
}

func newReportService(t *testing.T) (*ReportService, *reportCounter) {
	t.Helper()

	dir := t.TempDir()
	files, err := storage.NewFileManager(dir, 0)
	if err != nil {
		t.Fatalf("file manager: %v", err)
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	cfg := config.Config{BaseURL: "http://localhost:8080", ShareSecret: "secret", ShareTTL: time.Minute}
	counter := &reportCounter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReportService(NewPDFService(), NewShareService(cfg), files, store, counter, logger), counter
}

func TestReportCreateAndOpen(t *testing.T) {
	svc, counter := newReportService(t)

	shared, err := svc.Create(sampleVerification(1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if shared.URL == "" || shared.Report.ID == "" {
		t.Fatalf("expected a signed url and report id: %+v", shared)
	}

	report, err := svc.Open(shared.Report.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if report.FileName != shared.Report.FileName {
		t.Fatalf("expected %q, got %q", shared.Report.FileName, report.FileName)
	}
	if _, err := os.Stat(report.Path); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if counter.ok != 1 {
		t.Fatalf("expected one successful report, got %d", counter.ok)
	}
}

func TestReportCreateRejectsInvalidForm(t *testing.T) {
	svc, counter := newReportService(t)

	v := sampleVerification(1)
	v.IsOver18 = false
	v.PreviousLandlords[0].Email = "nope"

	_, err := svc.Create(v)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if counter.ok+counter.failed != 0 {
		t.Fatalf("invalid forms must not reach the pdf renderer")
	}
}

func TestReportOpenUnknown(t *testing.T) {
	svc, _ := newReportService(t)

	if _, err := svc.Open("missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
