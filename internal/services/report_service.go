package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"

	"github.com/PGohila/LMS/internal/repository"
)

// ReportService produces printable and downloadable documents: repayment
// schedule CSVs, gofpdf account statements and the wkhtmltopdf loan agreement.
type ReportService struct {
	appRepo      repository.ApplicationRepository
	scheduleRepo repository.ScheduleRepository
	accountRepo  repository.LoanAccountRepository
}

func NewReportService(
	appRepo repository.ApplicationRepository,
	scheduleRepo repository.ScheduleRepository,
	accountRepo repository.LoanAccountRepository,
) *ReportService {
	return &ReportService{
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
		accountRepo:  accountRepo,
	}
}

// GenerateScheduleCSV dumps the repayment schedule of one application.
func (s *ReportService) GenerateScheduleCSV(ctx context.Context, applicationID uint) (*bytes.Buffer, error) {
	schedules, err := s.scheduleRepo.FindByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Period", "Due Date", "Principal", "Interest", "Installment", "Penalty", "Paid", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range schedules {
		record := []string{
			fmt.Sprintf("%d", row.Period),
			row.DueDate.Format("2006-01-02"),
			row.Principal.StringFixed(2),
			row.Interest.StringFixed(2),
			row.TotalAmount.StringFixed(2),
			row.PenaltyAmount.StringFixed(2),
			row.PaidAmount.StringFixed(2),
			row.Status,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// GenerateOverdueCSV dumps every overdue installment across the portfolio.
func (s *ReportService) GenerateOverdueCSV(ctx context.Context) (*bytes.Buffer, error) {
	now := time.Now()
	overdue, err := s.scheduleRepo.FindOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Schedule ID", "Application", "Period", "Due Date", "Days Overdue", "Outstanding", "Penalty"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range overdue {
		daysOverdue := int(now.Sub(row.DueDate).Hours() / 24)
		record := []string{
			fmt.Sprintf("%d", row.ID),
			fmt.Sprintf("%d", row.ApplicationID),
			fmt.Sprintf("%d", row.Period),
			row.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%d", daysOverdue),
			row.Outstanding().StringFixed(2),
			row.PenaltyAmount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// GenerateStatementPDF renders an account statement: header with balances,
// then the full transaction history.
func (s *ReportService) GenerateStatementPDF(ctx context.Context, accountID uint) (*bytes.Buffer, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txns, err := s.accountRepo.FindTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Account Statement")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Account:")
	pdf.Cell(60, 8, account.AccountNumber)
	pdf.Ln(6)
	pdf.Cell(60, 8, "Customer:")
	pdf.Cell(60, 8, account.Customer.FullName)
	pdf.Ln(6)
	pdf.Cell(60, 8, "Status:")
	pdf.Cell(60, 8, account.Status)
	pdf.Ln(6)
	pdf.Cell(60, 8, "Principal Disbursed:")
	pdf.Cell(60, 8, account.PrincipalDisbursed.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Outstanding Principal:")
	pdf.Cell(60, 8, account.OutstandingPrincipal.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Accrued Penalty:")
	pdf.Cell(60, 8, account.AccruedPenalty.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Advance Balance:")
	pdf.Cell(60, 8, account.AdvancePaymentBalance.StringFixed(2))
	pdf.Ln(6)
	pdf.Cell(60, 8, "Generated:")
	pdf.Cell(60, 8, time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Transactions")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(35, 8, "Date")
	pdf.Cell(40, 8, "Type")
	pdf.Cell(35, 8, "Amount")
	pdf.Cell(60, 8, "Reference")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	for _, txn := range txns {
		pdf.Cell(35, 7, txn.CreatedAt.Format("2006-01-02"))
		pdf.Cell(40, 7, txn.Type)
		pdf.Cell(35, 7, txn.Amount.StringFixed(2))
		pdf.Cell(60, 7, txn.Reference)
		pdf.Ln(7)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

// GenerateAgreementPDF renders the loan agreement for an approved application.
func (s *ReportService) GenerateAgreementPDF(ctx context.Context, applicationID uint) (*bytes.Buffer, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApproved() {
		return nil, fmt.Errorf("application %d is %s, agreement requires approval: %w", app.ID, app.Status, ErrInvalidState)
	}

	schedules, err := s.scheduleRepo.FindByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	formatDate := func(t time.Time) string {
		return t.Format("January 2, 2006")
	}

	firstDueDate := "__________"
	lastDueDate := "__________"
	installment := "__________"
	if len(schedules) > 0 {
		first := schedules[0]
		last := schedules[0]
		for _, row := range schedules {
			if row.DueDate.Before(first.DueDate) {
				first = row
			}
			if row.DueDate.After(last.DueDate) {
				last = row
			}
		}
		firstDueDate = formatDate(first.DueDate)
		lastDueDate = formatDate(last.DueDate)
		installment = first.TotalAmount.StringFixed(2)
	}

	borrowerName := "THE BORROWER"
	borrowerID := "____________________"
	borrowerAddress := "____________________"
	if app.Customer.ID != 0 {
		borrowerName = app.Customer.FullName
		if app.Customer.NationalID != "" {
			borrowerID = app.Customer.NationalID
		}
		if app.Customer.Address != nil && *app.Customer.Address != "" {
			borrowerAddress = *app.Customer.Address
		}
	}

	startDate := "__________"
	if app.RepaymentStartDate != nil {
		startDate = formatDate(*app.RepaymentStartDate)
	}

	data := map[string]interface{}{
		"BorrowerName":    borrowerName,
		"BorrowerID":      borrowerID,
		"BorrowerAddress": borrowerAddress,
		"ProductName":     app.ProductName,
		"Amount":          app.Amount.StringFixed(2),
		"AmountWords":     AmountToWords(app.Amount),
		"InterestRate":    app.InterestRate.StringFixed(2),
		"TermCount":       app.TermCount.String(),
		"TermUnit":        app.TermUnit,
		"Frequency":       app.Frequency,
		"Method":          app.CalculationMethod,
		"Installment":     installment,
		"StartDate":       startDate,
		"FirstDueDate":    firstDueDate,
		"LastDueDate":     lastDueDate,
		"Installments":    len(schedules),
		"Date":            formatDate(time.Now()),
	}

	return s.generatePDF("loan_agreement.html", data)
}
