// Package payslip renders a single employee's pay statement as PDF.
package payslip

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

type Line struct {
	Label  string
	Amount decimal.Decimal
}

type Payslip struct {
	EmployeeName string
	EmployeeCode string
	Department   string
	Period       string
	Method       string
	Status       string

	PresentDays int
	AbsentDays  int
	LeaveDays   int
	TotalHours  decimal.Decimal

	Earnings        []Line
	Deductions      []Line
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal

	DisbursementType string
	BankAmount       decimal.Decimal
	CashAmount       decimal.Decimal

	Warnings []string
}

type Renderer struct {
	companyName string
	currency    string
}

func NewRenderer(companyName, currency string) *Renderer {
	return &Renderer{companyName: companyName, currency: currency}
}

const (
	labelWidth  = 120.0
	amountWidth = 60.0
	rowHeight   = 7.0
)

// Render writes p as an A4 PDF to w.
func (r *Renderer) Render(w io.Writer, p Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", p.EmployeeCode, p.Period), false)
	pdf.SetAuthor(r.companyName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.companyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Payslip for "+p.Period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, rowHeight, fmt.Sprintf("Employee: %s (%s)", p.EmployeeName, p.EmployeeCode))
	pdf.Ln(rowHeight)
	if p.Department != "" {
		pdf.Cell(0, rowHeight, "Department: "+p.Department)
		pdf.Ln(rowHeight)
	}
	pdf.Cell(0, rowHeight, fmt.Sprintf("Pay basis: %s    Status: %s", p.Method, p.Status))
	pdf.Ln(rowHeight)
	pdf.Cell(0, rowHeight, fmt.Sprintf("Present: %d    Absent: %d    Leave: %d    Hours: %s",
		p.PresentDays, p.AbsentDays, p.LeaveDays, p.TotalHours.StringFixed(1)))
	pdf.Ln(rowHeight + 3)

	r.section(pdf, "Earnings", p.Earnings, "Gross salary", p.Gross)
	r.section(pdf, "Deductions", p.Deductions, "Total deductions", p.TotalDeductions)

	pdf.SetFont("Helvetica", "B", 13)
	r.row(pdf, "Net salary", p.Net)
	pdf.SetFont("Helvetica", "", 11)
	switch p.DisbursementType {
	case "esi":
		r.row(pdf, "Paid by bank", p.BankAmount)
		r.row(pdf, "Paid in cash", p.CashAmount)
	default:
		pdf.Cell(0, rowHeight, "Paid by "+p.DisbursementType)
		pdf.Ln(rowHeight)
	}

	if len(p.Warnings) > 0 {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 10)
		for _, warning := range p.Warnings {
			pdf.Cell(0, rowHeight, "Note: "+warning)
			pdf.Ln(rowHeight)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render payslip: %w", err)
	}
	return pdf.Output(w)
}

func (r *Renderer) section(pdf *gofpdf.Fpdf, title string, lines []Line, totalLabel string, total decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(labelWidth+amountWidth, rowHeight+1, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		r.row(pdf, line.Label, line.Amount)
	}
	pdf.SetFont("Helvetica", "B", 11)
	r.row(pdf, totalLabel, total)
	pdf.Ln(3)
}

func (r *Renderer) row(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, r.currency+" "+amount.StringFixed(2), "", 1, "R", false, 0, "")
}
