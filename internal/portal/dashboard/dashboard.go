// Package dashboard loads and renders the per-role landing page.
package dashboard

import (
	"context"
	"sort"
	"time"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/workflow"

	"golang.org/x/sync/errgroup"
)

type Gateway interface {
	ListEmployees(ctx context.Context) ([]gateway.User, error)
	ListTickets(ctx context.Context) ([]gateway.Ticket, error)
	ListApprovals(ctx context.Context) ([]gateway.Approval, error)
	ListLeaves(ctx context.Context) ([]gateway.Leave, error)
	GetUser(ctx context.Context, id string) (gateway.User, error)
	ListHolidays(ctx context.Context) ([]gateway.Holiday, error)
}

type HRData struct {
	Name      string
	Headcount int
	Tickets   []workflow.Item
	Approvals []workflow.Item
	Leaves    []workflow.Item
}

type EmployeeData struct {
	Profile  gateway.User
	Leaves   []gateway.Leave
	Holidays []gateway.Holiday
}

type Loader struct {
	gw  Gateway
	now func() time.Time
}

func NewLoader(gw Gateway) *Loader {
	return &Loader{gw: gw, now: time.Now}
}

func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

func (l *Loader) LoadHR(ctx context.Context, name string) (HRData, error) {
	var (
		data      = HRData{Name: name}
		tickets   []gateway.Ticket
		approvals []gateway.Approval
		leaves    []gateway.Leave
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		employees, err := l.gw.ListEmployees(gctx)
		data.Headcount = len(employees)
		return err
	})
	g.Go(func() (err error) {
		tickets, err = l.gw.ListTickets(gctx)
		return err
	})
	g.Go(func() (err error) {
		approvals, err = l.gw.ListApprovals(gctx)
		return err
	})
	g.Go(func() (err error) {
		leaves, err = l.gw.ListLeaves(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return HRData{}, err
	}

	data.Tickets = onlyPending(workflow.TicketItems(tickets))
	data.Approvals = onlyPending(workflow.ApprovalItems(approvals))
	data.Leaves = onlyPending(workflow.LeaveItems(leaves))
	return data, nil
}

func (l *Loader) LoadEmployee(ctx context.Context, userID string) (EmployeeData, error) {
	var data EmployeeData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Profile, err = l.gw.GetUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		data.Leaves, err = l.gw.ListLeaves(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Holidays, err = l.gw.ListHolidays(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return EmployeeData{}, err
	}

	data.Holidays = Upcoming(data.Holidays, l.now())
	return data, nil
}

// Upcoming keeps holidays on or after the day of from, sorted by date.
func Upcoming(holidays []gateway.Holiday, from time.Time) []gateway.Holiday {
	today := from.Format("2006-01-02")
	out := make([]gateway.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.Date >= today {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func onlyPending(items []workflow.Item) []workflow.Item {
	out := items[:0]
	for _, it := range items {
		if it.Status == domain.StatusPending {
			out = append(out, it)
		}
	}
	return out
}
