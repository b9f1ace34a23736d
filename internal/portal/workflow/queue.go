package workflow

import (
	"context"
	"fmt"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"

	"golang.org/x/sync/errgroup"
)

type QueueGateway interface {
	ListTickets(ctx context.Context) ([]gateway.Ticket, error)
	ListApprovals(ctx context.Context) ([]gateway.Approval, error)
	ListLeaves(ctx context.Context) ([]gateway.Leave, error)
	UpdateTicket(ctx context.Context, id string, r gateway.Resolution) (gateway.Ticket, error)
	UpdateApproval(ctx context.Context, trxID string, r gateway.Resolution) (gateway.Approval, error)
	UpdateLeave(ctx context.Context, id string, r gateway.Resolution) (gateway.Leave, error)
}

// Queue is HR's three pending lists backed by the gateway.
type Queue struct {
	gw        QueueGateway
	Tickets   *PendingList
	Approvals *PendingList
	Leaves    *PendingList
}

func NewQueue(gw QueueGateway) *Queue {
	return &Queue{
		gw: gw,
		Tickets: NewPendingList(KindTicket, func(ctx context.Context, id string, r gateway.Resolution) error {
			_, err := gw.UpdateTicket(ctx, id, r)
			return err
		}),
		Approvals: NewPendingList(KindApproval, func(ctx context.Context, id string, r gateway.Resolution) error {
			_, err := gw.UpdateApproval(ctx, id, r)
			return err
		}),
		Leaves: NewPendingList(KindLeave, func(ctx context.Context, id string, r gateway.Resolution) error {
			_, err := gw.UpdateLeave(ctx, id, r)
			return err
		}),
	}
}

// Refresh refetches all three lists concurrently. Lists are only replaced
// when every fetch succeeds.
func (q *Queue) Refresh(ctx context.Context) error {
	var (
		tickets   []gateway.Ticket
		approvals []gateway.Approval
		leaves    []gateway.Leave
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tickets, err = q.gw.ListTickets(gctx)
		return err
	})
	g.Go(func() (err error) {
		approvals, err = q.gw.ListApprovals(gctx)
		return err
	})
	g.Go(func() (err error) {
		leaves, err = q.gw.ListLeaves(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	q.Tickets.Replace(TicketItems(tickets))
	q.Approvals.Replace(ApprovalItems(approvals))
	q.Leaves.Replace(LeaveItems(leaves))
	return nil
}

func (q *Queue) List(kind Kind) (*PendingList, error) {
	switch kind {
	case KindTicket:
		return q.Tickets, nil
	case KindApproval:
		return q.Approvals, nil
	case KindLeave:
		return q.Leaves, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func (q *Queue) Approve(ctx context.Context, kind Kind, id string) error {
	return q.resolve(ctx, kind, id, domain.StatusApproved)
}

func (q *Queue) Reject(ctx context.Context, kind Kind, id string) error {
	return q.resolve(ctx, kind, id, domain.StatusRejected)
}

func (q *Queue) resolve(ctx context.Context, kind Kind, id string, status domain.Status) error {
	list, err := q.List(kind)
	if err != nil {
		return err
	}
	return list.Resolve(ctx, id, status)
}

func TicketItems(in []gateway.Ticket) []Item {
	out := make([]Item, 0, len(in))
	for _, t := range in {
		out = append(out, Item{
			ID:        t.ID,
			Kind:      KindTicket,
			Requester: t.EmployeeID,
			Summary:   fmt.Sprintf("[%s] %s", t.Category, t.Details),
			Status:    t.Status,
			Version:   t.Version,
		})
	}
	return out
}

func ApprovalItems(in []gateway.Approval) []Item {
	out := make([]Item, 0, len(in))
	for _, a := range in {
		summary := a.Category
		if a.Amount != nil {
			summary = fmt.Sprintf("%s (%.2f)", a.Category, *a.Amount)
		}
		if a.Details != "" {
			summary += ": " + a.Details
		}
		out = append(out, Item{
			ID:        a.TrxID,
			Kind:      KindApproval,
			Requester: a.EmployeeID,
			Summary:   summary,
			Status:    a.Status,
			Version:   a.Version,
		})
	}
	return out
}

func LeaveItems(in []gateway.Leave) []Item {
	out := make([]Item, 0, len(in))
	for _, l := range in {
		out = append(out, Item{
			ID:        l.ID,
			Kind:      KindLeave,
			Requester: l.EmployeeID,
			Summary:   fmt.Sprintf("%s, %d day(s) from %s", l.LeaveType, l.Days, l.StartDate),
			Status:    l.Status,
			Version:   l.Version,
		})
	}
	return out
}
