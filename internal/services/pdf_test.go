package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tenantdesk/internal/domain"
)

func sampleVerification(landlords int) domain.TenantVerification {
	v := domain.TenantVerification{
		FirstName:          "Sarah",
		LastName:           "Johnson",
		PreferredName:      "Sal",
		IsOver18:           true,
		AllowCriminalCheck: true,
		AllowCreditCheck:   false,
	}
	for i := 0; i < landlords; i++ {
		v.PreviousLandlords = append(v.PreviousLandlords, domain.PreviousLandlord{
			Name:            fmt.Sprintf("Landlord %d", i+1),
			Phone:           "0400 000 000",
			Email:           fmt.Sprintf("landlord%d@example.com", i+1),
			Address:         "1 Smith St, Fitzroy VIC 3065",
			ResidencyPeriod: "2 years",
			AllowContact:    i%2 == 0,
		})
	}
	return v
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

func TestRenderVerificationReport(t *testing.T) {
	svc := NewPDFService()
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC) }

	var buf bytes.Buffer
	name, err := svc.RenderVerificationReport(&buf, sampleVerification(1))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if name != "tenant_verification_Sarah_Johnson_2025-03-09.pdf" {
		t.Fatalf("unexpected file name %q", name)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if got := pageCount(buf.Bytes()); got != 1 {
		t.Fatalf("expected a single page, got %d", got)
	}
	if svc.Generating() != 0 {
		t.Fatalf("generating counter must return to zero")
	}
}

func TestRenderBreaksPagesForManyLandlords(t *testing.T) {
	svc := NewPDFService()

	var buf bytes.Buffer
	if _, err := svc.RenderVerificationReport(&buf, sampleVerification(8)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := pageCount(buf.Bytes()); got < 2 {
		t.Fatalf("expected the landlords to spill onto another page, got %d pages", got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}

func TestRenderFailureResetsCounter(t *testing.T) {
	svc := NewPDFService()

	if _, err := svc.RenderVerificationReport(failingWriter{}, sampleVerification(1)); err == nil {
		t.Fatalf("expected write error")
	}
	if svc.Generating() != 0 {
		t.Fatalf("generating counter must return to zero after a failure")
	}
}

func TestWriteVerificationReport(t *testing.T) {
	svc := NewPDFService()
	out := filepath.Join(t.TempDir(), "reports", "r1.pdf")

	name, err := svc.WriteVerificationReport(sampleVerification(2), out)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(name, "tenant_verification_Sarah_Johnson_") {
		t.Fatalf("unexpected name %q", name)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected pdf on disk: %v", err)
	}
}

func TestReportFileNameStripsSeparators(t *testing.T) {
	v := domain.TenantVerification{FirstName: "A/B", LastName: `C"D`}
	got := ReportFileName(v, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if got != "tenant_verification_A_B_C_D_2024-01-02.pdf" {
		t.Fatalf("unexpected name %q", got)
	}
}
