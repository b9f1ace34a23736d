package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/view"
	"hr-portal/internal/portal/workflow"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func RenderHR(w io.Writer, d HRData) error {
	if _, err := fmt.Fprintf(w, "Welcome, %s\nHeadcount: %d\n", d.Name, d.Headcount); err != nil {
		return err
	}
	sections := []struct {
		title string
		items []workflow.Item
	}{
		{"Pending tickets", d.Tickets},
		{"Pending approvals", d.Approvals},
		{"Pending leave requests", d.Leaves},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "\n%s (%d)\n", s.title, len(s.items)); err != nil {
			return err
		}
		if err := RenderItems(w, s.items); err != nil {
			return err
		}
	}
	return nil
}

func RenderEmployee(w io.Writer, d EmployeeData) error {
	p := d.Profile
	if _, err := fmt.Fprintf(w, "Welcome, %s\n", p.Name); err != nil {
		return err
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Department\t%s\n", orDash(p.Department))
	fmt.Fprintf(tw, "Designation\t%s\n", orDash(p.Designation))
	fmt.Fprintf(tw, "Casual Leaves Left\t%d\n", p.LeaveBalance.Casual)
	fmt.Fprintf(tw, "Sick Leaves Left\t%d\n", p.LeaveBalance.Sick)
	fmt.Fprintf(tw, "Privilege Leaves Left\t%d\n", p.LeaveBalance.Privilege)
	if err := tw.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nMy leave requests (%d)\n", len(d.Leaves)); err != nil {
		return err
	}
	if err := RenderLeaves(w, d.Leaves); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nUpcoming holidays\n"); err != nil {
		return err
	}
	return RenderHolidays(w, d.Holidays)
}

func RenderItems(w io.Writer, items []workflow.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "  nothing pending")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tREQUESTER\tDETAILS\tVERSION")
	for _, it := range items {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", it.ID, orDash(it.Requester), it.Summary, it.Version)
	}
	return tw.Flush()
}

func RenderLeaves(w io.Writer, leaves []gateway.Leave) error {
	if len(leaves) == 0 {
		_, err := fmt.Fprintln(w, "  no leave requests")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTYPE\tFROM\tDAYS\tSTATUS")
	for _, l := range leaves {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%s\n", l.ID, l.LeaveType, l.StartDate, l.Days, l.Status)
	}
	return tw.Flush()
}

func RenderHolidays(w io.Writer, holidays []gateway.Holiday) error {
	if len(holidays) == 0 {
		_, err := fmt.Fprintln(w, "  none")
		return err
	}
	tw := newTable(w)
	for _, h := range holidays {
		fmt.Fprintf(tw, "  %s\t%s\n", h.Date, h.Name)
	}
	return tw.Flush()
}

func RenderEmployees(w io.Writer, users []gateway.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tDEPARTMENT\tPRESENCE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, orDash(u.Department), orDash(u.Presence))
	}
	return tw.Flush()
}

// RenderPayslips prints amounts from minor units with two decimals.
func RenderPayslips(w io.Writer, slips []gateway.Payslip) error {
	if len(slips) == 0 {
		_, err := fmt.Fprintln(w, "  no payslips yet")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tPERIOD\tBASE\tALLOWANCE\tDEDUCTION\tNET")
	for _, s := range slips {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Period,
			money(s.BaseSalary), money(s.Allowance), money(s.Deduction), money(s.NetSalary))
	}
	return tw.Flush()
}

func RenderPolicies(w io.Writer, docs []gateway.PolicyDocument) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "  no policy documents")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  ID\tTITLE\tSTATUS\tSIZE\tFILE")
	for _, d := range docs {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Status, kilobytes(d.SizeBytes), orDash(d.FileName))
	}
	return tw.Flush()
}

func kilobytes(n int64) string {
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}

func money(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}

// RenderMenu marks the active page with an asterisk.
func RenderMenu(w io.Writer, items []view.MenuItem, active view.Page) error {
	tw := newTable(w)
	for _, it := range items {
		mark := " "
		if it.Page == active {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, it.Label, it.Page)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
