package invoice

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/billing"
	"github.com/go-pdf/fpdf"
)

// Issuer is the company block printed at the top of every invoice.
type Issuer struct {
	Name    string
	Address []string
	Email   string
}

const (
	dateLayout   = "2006-01-02"
	rowHeight    = 8.0
	bottomMargin = 20.0
)

var columnWidths = [4]float64{95, 20, 35, 35}

func renderPDF(issuer Issuer, st *Statement, issuedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetCreationDate(issuedAt)
	pdf.SetModificationDate(issuedAt)
	pdf.SetTitle(st.Number, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	b := st.Booking

	// issuer
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 9, tr(issuer.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range issuer.Address {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	if issuer.Email != "" {
		pdf.CellFormat(0, 5, issuer.Email, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Invoice #: "+st.Number, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+issuedAt.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Booking Ref: "+bookingRef(b), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	section(pdf, "BILL TO")
	pdf.CellFormat(0, 5, tr(b.CustomerName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(joinNonEmpty(b.Address, b.State)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, b.Email, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	section(pdf, "TRIP DETAILS")
	pdf.CellFormat(0, 5, tr("Vehicle: "+billing.VehicleName(b)), "", 1, "L", false, 0, "")
	if b.CarType != nil && b.CarType.Name != "" {
		pdf.CellFormat(0, 5, tr("Car Type: "+b.CarType.Name), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 5, tr("Pickup: "+withHub(b.StartDate, b.PickupHub)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Return: "+withHub(b.EndDate, b.ReturnHub)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	tableHeader(pdf)
	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range st.Breakdown.Lines {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			tableHeader(pdf)
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.CellFormat(columnWidths[0], rowHeight, tr(line.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], rowHeight, strconv.Itoa(line.Days), "1", 0, "C", false, 0, "")
		pdf.CellFormat(columnWidths[2], rowHeight, billing.FormatCurrency(line.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[3], rowHeight, billing.FormatCurrency(line.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	labelWidth := columnWidths[0] + columnWidths[1] + columnWidths[2]
	totalRow(pdf, labelWidth, "Subtotal:", billing.FormatCurrency(st.Breakdown.Subtotal), false)
	totalRow(pdf, labelWidth, "Tax (18% GST):", billing.FormatCurrency(st.Breakdown.Tax), false)
	totalRow(pdf, labelWidth, "GRAND TOTAL:", billing.FormatCurrency(st.Breakdown.GrandTotal), true)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, "Thank you for your business!", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	terms := "Terms & Conditions: Payment is due within 15 days."
	if issuer.Email != "" {
		terms += "\nFor support, contact " + issuer.Email + "."
	}
	pdf.MultiCell(0, 4, terms, "", "C", false)

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	headers := [4]string{"DESCRIPTION", "DAYS", "RATE", "AMOUNT"}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(columnWidths[i], rowHeight, h, "1", ln, "C", true, 0, "")
	}
}

func totalRow(pdf *fpdf.Fpdf, labelWidth float64, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	pdf.CellFormat(labelWidth, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[3], 7, value, "", 1, "R", false, 0, "")
}

func bookingRef(b *domain.Booking) string {
	if b.ConfirmationNumber == "" {
		return "N/A"
	}
	return b.ConfirmationNumber
}

func withHub(date time.Time, hub *domain.Hub) string {
	s := date.Format(dateLayout)
	if hub != nil && hub.Name != "" {
		s = fmt.Sprintf("%s (%s)", s, hub.Name)
	}
	return s
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
