package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"hr-portal/internal/employee"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders minor units as a grouped decimal, e.g. 5000050 -> "50,000.50".
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return sign + amountPrinter.Sprintf("%d", minor/100) + fmt.Sprintf(".%02d", minor%100)
}

func payslipLines(p Payslip, e employee.Employee) []string {
	name := e.Name
	if name == "" {
		name = e.ID.String()
	}
	lines := []string{
		"Payslip " + p.Period.Format("January 2006"),
		"",
		"Employee: " + name,
	}
	if e.Email != "" {
		lines = append(lines, "Email: "+e.Email)
	}
	if e.Department != "" {
		lines = append(lines, "Department: "+e.Department)
	}
	if e.Designation != "" {
		lines = append(lines, "Designation: "+e.Designation)
	}
	return append(lines,
		"",
		"Base salary: "+formatAmount(p.BaseSalary),
		"Allowance: "+formatAmount(p.Allowance),
		"Deduction: "+formatAmount(p.Deduction),
		"Net salary: "+formatAmount(p.NetSalary),
		"",
		"Reference: "+p.ID.String(),
	)
}

// buildSimplePayslipPDF writes a one-page PDF with one text line per entry,
// using the built-in Helvetica font.
func buildSimplePayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("payslip has no content")
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n16 TL\n50 800 Td\n")
	for i, line := range lines {
		if i > 0 {
			content.WriteString("T* ")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", pdfEscape(line))
	}
	content.WriteString("ET")
	stream := content.String()

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&out, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xref)

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(v)
}
