package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/PGohila/LMS/internal/models"
	"github.com/PGohila/LMS/internal/repository"
)

// ExportService renders the portfolio overview and repayment schedules as
// downloadable CSV, XLSX and PDF files.
type ExportService struct {
	portfolioSvc *PortfolioService
	scheduleRepo repository.ScheduleRepository
}

func NewExportService(portfolioSvc *PortfolioService, scheduleRepo repository.ScheduleRepository) *ExportService {
	return &ExportService{
		portfolioSvc: portfolioSvc,
		scheduleRepo: scheduleRepo,
	}
}

func (s *ExportService) ExportPortfolioCSV(ctx context.Context, overview *models.PortfolioOverview, dist *models.StatusDistribution) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Portfolio Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Overview"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Total Disbursed", overview.TotalDisbursed})
	_ = writer.Write([]string{"Total Outstanding", overview.TotalOutstanding})
	_ = writer.Write([]string{"Penalties Accrued", overview.TotalPenaltiesAccrued})
	_ = writer.Write([]string{"Active Accounts", fmt.Sprintf("%d", overview.ActiveAccounts)})
	_ = writer.Write([]string{"Past Due Accounts", fmt.Sprintf("%d", overview.PastDueAccounts)})
	_ = writer.Write([]string{"Settled Accounts", fmt.Sprintf("%d", overview.SettledAccounts)})
	_ = writer.Write([]string{"Collection Rate", overview.CollectionRate + "%"})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Application Status Distribution"})
	_ = writer.Write([]string{"Status", "Count"})
	_ = writer.Write([]string{"Draft", fmt.Sprintf("%d", dist.Draft)})
	_ = writer.Write([]string{"Submitted", fmt.Sprintf("%d", dist.Submitted)})
	_ = writer.Write([]string{"Under Review", fmt.Sprintf("%d", dist.UnderReview)})
	_ = writer.Write([]string{"Approved", fmt.Sprintf("%d", dist.Approved)})
	_ = writer.Write([]string{"Rejected", fmt.Sprintf("%d", dist.Rejected)})
	_ = writer.Write([]string{"Modified", fmt.Sprintf("%d", dist.Modified)})
	_ = writer.Write([]string{"Closed", fmt.Sprintf("%d", dist.Closed)})

	writer.Flush()

	filename := fmt.Sprintf("portfolio_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPortfolioXLSX(ctx context.Context, overview *models.PortfolioOverview, dist *models.StatusDistribution) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Portfolio"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Portfolio Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Overview")
	_ = f.SetCellValue(sheet, "A4", "Metric")
	_ = f.SetCellValue(sheet, "B4", "Value")

	_ = f.SetCellValue(sheet, "A5", "Total Disbursed")
	_ = f.SetCellValue(sheet, "B5", overview.TotalDisbursed)
	_ = f.SetCellValue(sheet, "A6", "Total Outstanding")
	_ = f.SetCellValue(sheet, "B6", overview.TotalOutstanding)
	_ = f.SetCellValue(sheet, "A7", "Penalties Accrued")
	_ = f.SetCellValue(sheet, "B7", overview.TotalPenaltiesAccrued)
	_ = f.SetCellValue(sheet, "A8", "Active Accounts")
	_ = f.SetCellValue(sheet, "B8", overview.ActiveAccounts)
	_ = f.SetCellValue(sheet, "A9", "Past Due Accounts")
	_ = f.SetCellValue(sheet, "B9", overview.PastDueAccounts)
	_ = f.SetCellValue(sheet, "A10", "Settled Accounts")
	_ = f.SetCellValue(sheet, "B10", overview.SettledAccounts)
	_ = f.SetCellValue(sheet, "A11", "Collection Rate")
	_ = f.SetCellValue(sheet, "B11", overview.CollectionRate+"%")

	_ = f.SetCellValue(sheet, "A13", "Application Status Distribution")
	_ = f.SetCellValue(sheet, "A14", "Status")
	_ = f.SetCellValue(sheet, "B14", "Count")

	_ = f.SetCellValue(sheet, "A15", "Draft")
	_ = f.SetCellValue(sheet, "B15", dist.Draft)
	_ = f.SetCellValue(sheet, "A16", "Submitted")
	_ = f.SetCellValue(sheet, "B16", dist.Submitted)
	_ = f.SetCellValue(sheet, "A17", "Under Review")
	_ = f.SetCellValue(sheet, "B17", dist.UnderReview)
	_ = f.SetCellValue(sheet, "A18", "Approved")
	_ = f.SetCellValue(sheet, "B18", dist.Approved)
	_ = f.SetCellValue(sheet, "A19", "Rejected")
	_ = f.SetCellValue(sheet, "B19", dist.Rejected)
	_ = f.SetCellValue(sheet, "A20", "Modified")
	_ = f.SetCellValue(sheet, "B20", dist.Modified)
	_ = f.SetCellValue(sheet, "A21", "Closed")
	_ = f.SetCellValue(sheet, "B21", dist.Closed)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("portfolio_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPortfolioPDF(ctx context.Context, overview *models.PortfolioOverview, dist *models.StatusDistribution) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Portfolio Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Overview")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 10, "Total Disbursed:")
	pdf.Cell(40, 10, overview.TotalDisbursed)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Total Outstanding:")
	pdf.Cell(40, 10, overview.TotalOutstanding)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Penalties Accrued:")
	pdf.Cell(40, 10, overview.TotalPenaltiesAccrued)
	pdf.Ln(6)

	pdf.Cell(60, 10, "Active Accounts:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.ActiveAccounts))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Past Due Accounts:")
	pdf.Cell(40, 10, fmt.Sprintf("%d", overview.PastDueAccounts))
	pdf.Ln(6)

	pdf.Cell(60, 10, "Collection Rate:")
	pdf.Cell(40, 10, overview.CollectionRate+"%")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Application Status Distribution")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	rows := []struct {
		label string
		count int
	}{
		{"Draft", dist.Draft},
		{"Submitted", dist.Submitted},
		{"Under Review", dist.UnderReview},
		{"Approved", dist.Approved},
		{"Rejected", dist.Rejected},
		{"Modified", dist.Modified},
		{"Closed", dist.Closed},
	}
	for _, row := range rows {
		pdf.Cell(60, 10, row.label+":")
		pdf.Cell(40, 10, fmt.Sprintf("%d", row.count))
		pdf.Ln(6)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("portfolio_report_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportScheduleXLSX renders one application's repayment schedule as a
// spreadsheet.
func (s *ExportService) ExportScheduleXLSX(ctx context.Context, applicationID uint) ([]byte, string, error) {
	schedules, err := s.scheduleRepo.FindByApplication(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Period", "Due Date", "Principal", "Interest", "Installment", "Penalty", "Paid", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, row := range schedules {
		values := []interface{}{
			row.Period,
			row.DueDate.Format("2006-01-02"),
			row.Principal.StringFixed(2),
			row.Interest.StringFixed(2),
			row.TotalAmount.StringFixed(2),
			row.PenaltyAmount.StringFixed(2),
			row.PaidAmount.StringFixed(2),
			row.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("schedule_%d_%s.xlsx", applicationID, time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
