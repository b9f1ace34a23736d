package dashboard_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/dashboard"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	employees []gateway.User
	tickets   []gateway.Ticket
	approvals []gateway.Approval
	leaves    []gateway.Leave
	user      gateway.User
	holidays  []gateway.Holiday
	err       error
}

func (f *fakeGateway) ListEmployees(context.Context) ([]gateway.User, error) {
	return f.employees, f.err
}

func (f *fakeGateway) ListTickets(context.Context) ([]gateway.Ticket, error) {
	return f.tickets, nil
}

func (f *fakeGateway) ListApprovals(context.Context) ([]gateway.Approval, error) {
	return f.approvals, nil
}

func (f *fakeGateway) ListLeaves(context.Context) ([]gateway.Leave, error) {
	return f.leaves, nil
}

func (f *fakeGateway) GetUser(context.Context, string) (gateway.User, error) {
	return f.user, f.err
}

func (f *fakeGateway) ListHolidays(context.Context) ([]gateway.Holiday, error) {
	return f.holidays, nil
}

func TestLoadHR(t *testing.T) {
	gw := &fakeGateway{
		employees: []gateway.User{{ID: "u-1"}, {ID: "u-2"}, {ID: "u-3"}},
		tickets: []gateway.Ticket{
			{ID: "t1", Category: "IT", Details: "VPN down", Status: domain.StatusPending, Version: 1},
			{ID: "TKT-101", Category: "HR", Status: domain.StatusRejected},
		},
		approvals: []gateway.Approval{{TrxID: "TRX-1001", Category: "Salary Hike", Status: domain.StatusPending, Version: 1}},
	}

	data, err := dashboard.NewLoader(gw).LoadHR(context.Background(), "Asha")
	require.NoError(t, err)
	assert.Equal(t, 3, data.Headcount)
	require.Len(t, data.Tickets, 1)
	assert.Equal(t, "t1", data.Tickets[0].ID)
	assert.Empty(t, data.Leaves)

	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderHR(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "Headcount: 3")
	assert.Contains(t, out, "Pending tickets (1)")
	assert.Contains(t, out, "[IT] VPN down")
	assert.Contains(t, out, "TRX-1001")
	assert.NotContains(t, out, "TKT-101")
	assert.Contains(t, out, "nothing pending")
}

func TestLoadHR_Error(t *testing.T) {
	gw := &fakeGateway{err: gateway.ErrUnauthorized}
	_, err := dashboard.NewLoader(gw).LoadHR(context.Background(), "Asha")
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
}

func TestLoadEmployee(t *testing.T) {
	gw := &fakeGateway{
		user: gateway.User{
			ID: "u-2", Name: "Ravi", Role: domain.RoleEmployee, Department: "Engineering",
			LeaveBalance: gateway.LeaveBalance{Casual: 12, Sick: 8, Privilege: 15},
		},
		leaves: []gateway.Leave{{ID: "l-1", LeaveType: "Sick Leave", StartDate: "2026-10-05", Days: 2, Status: domain.StatusApproved}},
		holidays: []gateway.Holiday{
			{Date: "2026-11-08", Name: "Diwali"},
			{Date: "2026-05-01", Name: "May Day"},
			{Date: "2026-10-14", Name: "Ayudha Pooja"},
		},
	}
	today := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	data, err := dashboard.NewLoader(gw).WithClock(func() time.Time { return today }).LoadEmployee(context.Background(), "u-2")
	require.NoError(t, err)
	require.Len(t, data.Holidays, 2)
	assert.Equal(t, "Ayudha Pooja", data.Holidays[0].Name)

	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderEmployee(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "Welcome, Ravi")
	assert.Contains(t, out, "Sick Leaves Left")
	assert.Contains(t, out, "l-1")
	assert.Contains(t, out, "Diwali")
	assert.NotContains(t, out, "May Day")
}

func TestRenderMenu(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderMenu(&buf, view.Menu(domain.RoleEmployee), view.PageNotifications))

	out := buf.String()
	assert.Contains(t, out, "* Leave Requests")
	assert.NotContains(t, out, "Settings")
}

func TestRenderPayslips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderPayslips(&buf, []gateway.Payslip{
		{ID: "p-1", Period: "2026-09", BaseSalary: 5000000, Allowance: 250000, Deduction: 120050, NetSalary: 5129950},
	}))
	assert.Contains(t, buf.String(), "51299.50")

	buf.Reset()
	require.NoError(t, dashboard.RenderPayslips(&buf, nil))
	assert.Contains(t, buf.String(), "no payslips yet")
}

func TestRenderPolicies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dashboard.RenderPolicies(&buf, []gateway.PolicyDocument{
		{ID: "d-1", Title: "Remote Work", Status: "draft", SizeBytes: 2048, FileName: "remote.pdf"},
	}))
	assert.Contains(t, buf.String(), "Remote Work")
	assert.Contains(t, buf.String(), "2.0 KB")

	buf.Reset()
	require.NoError(t, dashboard.RenderPolicies(&buf, nil))
	assert.Contains(t, buf.String(), "no policy documents")
}
