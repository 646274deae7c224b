package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"tenantdesk/internal/domain"
)

const (
	marginLeft   = 20.0
	landlordLeft = 25.0
	pageBreakY   = 250.0
	topY         = 20.0
)

type PDFService struct {
	now        func() time.Time
	generating atomic.Int64
}

func NewPDFService() *PDFService {
	return &PDFService{now: time.Now}
}

// Generating reports how many reports are being rendered right now.
func (s *PDFService) Generating() int64 {
	return s.generating.Load()
}

// ReportFileName builds the download name from the applicant and the date.
func ReportFileName(v domain.TenantVerification, at time.Time) string {
	name := fmt.Sprintf("tenant_verification_%s_%s_%s.pdf", v.FirstName, v.LastName, at.UTC().Format("2006-01-02"))
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, name)
}

// WriteVerificationReport renders the report to outPath and returns the
// download file name.
func (s *PDFService) WriteVerificationReport(v domain.TenantVerification, outPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("ensure pdf directory: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create pdf: %w", err)
	}

	name, err := s.RenderVerificationReport(f, v)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close pdf: %w", cerr)
	}
	if err != nil {
		os.Remove(outPath)
		return "", err
	}
	return name, nil
}

func (s *PDFService) RenderVerificationReport(w io.Writer, v domain.TenantVerification) (string, error) {
	s.generating.Add(1)
	defer s.generating.Add(-1)

	now := s.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tenant Verification Report", false)
	pdf.SetAuthor("tenantdesk", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	y := topY

	title := "TENANT VERIFICATION REPORT"
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text((pageWidth-pdf.GetStringWidth(title))/2, y, title)
	y += 20

	heading := func(text string) {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Text(marginLeft, y, text)
		y += 10
		pdf.SetFont("Helvetica", "", 12)
	}

	heading("Personal Information")
	pdf.Text(marginLeft, y, tr("Name: "+v.FullName()))
	y += 8
	if strings.TrimSpace(v.PreferredName) != "" {
		pdf.Text(marginLeft, y, tr("Preferred Name: "+v.PreferredName))
		y += 8
	}
	age := "Not confirmed"
	if v.IsOver18 {
		age = "Confirmed over 18"
	}
	pdf.Text(marginLeft, y, "Age Verification: "+age)
	y += 15

	if len(v.PreviousLandlords) > 0 {
		heading("Previous Landlords")

		for i, l := range v.PreviousLandlords {
			if y > pageBreakY {
				pdf.AddPage()
				y = topY
			}

			pdf.SetFont("Helvetica", "B", 14)
			pdf.Text(marginLeft, y, fmt.Sprintf("Landlord %d", i+1))
			y += 8

			pdf.SetFont("Helvetica", "", 12)
			lines := []string{
				"Name: " + l.Name,
				"Phone: " + l.Phone,
				"Email: " + l.Email,
				"Address: " + l.Address,
				"Residency Period: " + l.ResidencyPeriod,
				"Contact Permission: " + yesNo(l.AllowContact),
			}
			for _, line := range lines {
				pdf.Text(landlordLeft, y, tr(line))
				y += 6
			}
			y += 6
		}
	}

	heading("Verification Permissions")
	permissions := []struct {
		label   string
		allowed bool
	}{
		{"Criminal History Check", v.AllowCriminalCheck},
		{"Credit History Check", v.AllowCreditCheck},
		{"ID Verification Check", v.AllowIDVerification},
	}
	for _, p := range permissions {
		pdf.Text(marginLeft, y, fmt.Sprintf("%s: %s", p.label, authorized(p.allowed)))
		y += 8
	}
	y += 7

	pdf.SetFont("Helvetica", "I", 10)
	pdf.Text(marginLeft, y, "Generated on: "+now.Format("02/01/2006 15:04:05"))

	if err := pdf.Output(w); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return ReportFileName(v, now), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func authorized(b bool) string {
	if b {
		return "Authorized"
	}
	return "Not Authorized"
}
