package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaves struct {
	calls int
	got   gateway.NewLeave
	err   error
}

func (f *fakeLeaves) CreateLeave(_ context.Context, l gateway.NewLeave) (gateway.Leave, error) {
	f.calls++
	f.got = l
	if f.err != nil {
		return gateway.Leave{}, f.err
	}
	return gateway.Leave{ID: "l-1", LeaveType: l.LeaveType, StartDate: l.StartDate, Days: l.Days, Status: domain.StatusPending}, nil
}

func TestLeaveForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       workflow.LeaveForm
		wantFields []string
	}{
		{
			name: "valid short leave type is canonicalized",
			form: workflow.LeaveForm{LeaveType: "sick", StartDate: "2026-11-02", Days: 2, Reason: "flu"},
		},
		{
			name:       "sick leave without start date",
			form:       workflow.LeaveForm{LeaveType: "Sick Leave", Days: 2, Reason: "flu"},
			wantFields: []string{"start_date"},
		},
		{
			name:       "everything empty",
			form:       workflow.LeaveForm{},
			wantFields: []string{"type", "start_date", "days", "reason"},
		},
		{
			name:       "blank reason after trim",
			form:       workflow.LeaveForm{LeaveType: "Casual Leave", StartDate: "2026-11-02", Days: 1, Reason: "   "},
			wantFields: []string{"reason"},
		},
		{
			name:       "bad date and negative days",
			form:       workflow.LeaveForm{LeaveType: "Casual Leave", StartDate: "02/11/2026", Days: -1, Reason: "trip"},
			wantFields: []string{"start_date", "days"},
		},
		{
			name:       "unknown leave type",
			form:       workflow.LeaveForm{LeaveType: "Garden Leave", StartDate: "2026-11-02", Days: 1, Reason: "trip"},
			wantFields: []string{"type"},
		},
		{
			name:       "end before start",
			form:       workflow.LeaveForm{LeaveType: "Casual Leave", StartDate: "2026-11-05", EndDate: "2026-11-02", Days: 1, Reason: "trip"},
			wantFields: []string{"end_date"},
		},
		{
			name:       "days shorter than the period",
			form:       workflow.LeaveForm{LeaveType: "Casual Leave", StartDate: "2026-11-02", EndDate: "2026-12-30", Days: 1, Reason: "trip"},
			wantFields: []string{"days"},
		},
		{
			name: "days matching the period",
			form: workflow.LeaveForm{LeaveType: "Casual Leave", StartDate: "2026-11-02", EndDate: "2026-11-04", Days: 3, Reason: "trip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var formErr *workflow.FormError
			require.True(t, errors.As(err, &formErr))
			assert.ErrorIs(t, err, workflow.ErrInvalidForm)
			assert.Len(t, formErr.Fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, formErr.Fields, f)
			}
		})
	}
}

func TestSubmitLeave(t *testing.T) {
	t.Run("invalid form never reaches the gateway", func(t *testing.T) {
		gw := &fakeLeaves{}
		_, err := workflow.SubmitLeave(context.Background(), gw, workflow.LeaveForm{LeaveType: "Sick Leave", Days: 3, Reason: "flu"})

		assert.ErrorIs(t, err, workflow.ErrInvalidForm)
		assert.Zero(t, gw.calls)
	})

	t.Run("valid form is sent once with canonical type", func(t *testing.T) {
		gw := &fakeLeaves{}
		leave, err := workflow.SubmitLeave(context.Background(), gw, workflow.LeaveForm{LeaveType: "privilege", StartDate: "2026-12-21", Days: 5, Reason: "holiday"})

		require.NoError(t, err)
		assert.Equal(t, 1, gw.calls)
		assert.Equal(t, "Privilege Leave", gw.got.LeaveType)
		assert.Equal(t, "l-1", leave.ID)
	})

	t.Run("backend refusal is returned", func(t *testing.T) {
		gw := &fakeLeaves{err: &gateway.APIError{Status: http.StatusUnprocessableEntity, Code: "INSUFFICIENT_BALANCE"}}
		_, err := workflow.SubmitLeave(context.Background(), gw, workflow.LeaveForm{LeaveType: "Sick Leave", StartDate: "2026-11-02", Days: 30, Reason: "surgery"})

		var apiErr *gateway.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "INSUFFICIENT_BALANCE", apiErr.Code)
	})
}

func pending(ids ...string) []workflow.Item {
	out := make([]workflow.Item, 0, len(ids))
	for i, id := range ids {
		out = append(out, workflow.Item{ID: id, Kind: workflow.KindTicket, Status: domain.StatusPending, Version: i + 1})
	}
	return out
}

func ids(items []workflow.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestPendingList_Resolve(t *testing.T) {
	t.Run("approved item leaves the list and stale refetch keeps it out", func(t *testing.T) {
		var sent gateway.Resolution
		list := workflow.NewPendingList(workflow.KindTicket, func(_ context.Context, id string, r gateway.Resolution) error {
			assert.Equal(t, "t1", id)
			sent = r
			return nil
		})
		list.Replace(pending("t1", "t2"))

		require.NoError(t, list.Resolve(context.Background(), "t1", domain.StatusApproved))
		assert.Equal(t, []string{"t2"}, ids(list.Items()))
		assert.Equal(t, domain.StatusApproved, sent.Status)
		require.NotNil(t, sent.Version)
		assert.Equal(t, 1, *sent.Version)

		list.Replace(pending("t1", "t2", "t3"))
		assert.Equal(t, []string{"t2", "t3"}, ids(list.Items()))
	})

	t.Run("failure restores the item in place", func(t *testing.T) {
		list := workflow.NewPendingList(workflow.KindTicket, func(context.Context, string, gateway.Resolution) error {
			return gateway.ErrUnreachable
		})
		list.Replace(pending("t1", "t2", "t3"))

		err := list.Resolve(context.Background(), "t2", domain.StatusRejected)
		assert.ErrorIs(t, err, gateway.ErrUnreachable)
		assert.Equal(t, []string{"t1", "t2", "t3"}, ids(list.Items()))

		list.Replace(pending("t2"))
		assert.Equal(t, []string{"t2"}, ids(list.Items()))
	})

	t.Run("conflict keeps the item removed", func(t *testing.T) {
		list := workflow.NewPendingList(workflow.KindTicket, func(context.Context, string, gateway.Resolution) error {
			return &gateway.APIError{Status: http.StatusConflict, Code: "ALREADY_RESOLVED"}
		})
		list.Replace(pending("t1"))

		err := list.Resolve(context.Background(), "t1", domain.StatusApproved)
		assert.ErrorIs(t, err, workflow.ErrResolvedElsewhere)
		assert.Zero(t, list.Len())

		list.Replace(pending("t1"))
		assert.Zero(t, list.Len())
	})

	t.Run("unknown id and non-terminal status", func(t *testing.T) {
		calls := 0
		list := workflow.NewPendingList(workflow.KindTicket, func(context.Context, string, gateway.Resolution) error {
			calls++
			return nil
		})
		list.Replace(pending("t1"))

		assert.ErrorIs(t, list.Resolve(context.Background(), "t9", domain.StatusApproved), workflow.ErrNotPending)
		assert.Error(t, list.Resolve(context.Background(), "t1", domain.StatusPending))
		assert.Zero(t, calls)
	})
}

func TestPendingList_ReplaceDropsResolvedStatuses(t *testing.T) {
	list := workflow.NewPendingList(workflow.KindLeave, nil)
	list.Replace([]workflow.Item{
		{ID: "l1", Status: domain.StatusPending},
		{ID: "l2", Status: domain.StatusApproved},
		{ID: "l3", Status: domain.StatusRejected},
	})
	assert.Equal(t, []string{"l1"}, ids(list.Items()))
}

type fakeQueueGateway struct {
	tickets   []gateway.Ticket
	approvals []gateway.Approval
	leaves    []gateway.Leave
	listErr   error
	updated   []string
}

func (f *fakeQueueGateway) ListTickets(context.Context) ([]gateway.Ticket, error) {
	return f.tickets, f.listErr
}

func (f *fakeQueueGateway) ListApprovals(context.Context) ([]gateway.Approval, error) {
	return f.approvals, nil
}

func (f *fakeQueueGateway) ListLeaves(context.Context) ([]gateway.Leave, error) {
	return f.leaves, nil
}

func (f *fakeQueueGateway) UpdateTicket(_ context.Context, id string, r gateway.Resolution) (gateway.Ticket, error) {
	f.updated = append(f.updated, "ticket:"+id)
	return gateway.Ticket{ID: id, Status: r.Status}, nil
}

func (f *fakeQueueGateway) UpdateApproval(_ context.Context, id string, r gateway.Resolution) (gateway.Approval, error) {
	f.updated = append(f.updated, "approval:"+id)
	return gateway.Approval{TrxID: id, Status: r.Status}, nil
}

func (f *fakeQueueGateway) UpdateLeave(_ context.Context, id string, r gateway.Resolution) (gateway.Leave, error) {
	f.updated = append(f.updated, "leave:"+id)
	return gateway.Leave{ID: id, Status: r.Status}, nil
}

func TestQueue(t *testing.T) {
	amount := 5000.0
	gw := &fakeQueueGateway{
		tickets: []gateway.Ticket{
			{ID: "t1", Category: "IT", Details: "laptop", Status: domain.StatusPending, Version: 1},
			{ID: "TKT-101", Category: "HR", Status: domain.StatusApproved, Version: 2},
		},
		approvals: []gateway.Approval{
			{TrxID: "TRX-1001", Category: "Salary Hike", Amount: &amount, Status: domain.StatusPending, Version: 1},
		},
		leaves: []gateway.Leave{
			{ID: "l-1", LeaveType: "Sick Leave", StartDate: "2026-11-02", Days: 2, Status: domain.StatusPending, Version: 1},
		},
	}
	q := workflow.NewQueue(gw)

	require.NoError(t, q.Refresh(context.Background()))
	assert.Equal(t, []string{"t1"}, ids(q.Tickets.Items()))
	assert.Equal(t, "Salary Hike (5000.00)", q.Approvals.Items()[0].Summary)
	assert.Equal(t, 1, q.Leaves.Len())

	require.NoError(t, q.Approve(context.Background(), workflow.KindTicket, "t1"))
	require.NoError(t, q.Reject(context.Background(), workflow.KindApproval, "TRX-1001"))
	assert.Equal(t, []string{"ticket:t1", "approval:TRX-1001"}, gw.updated)

	require.NoError(t, q.Refresh(context.Background()))
	assert.Zero(t, q.Tickets.Len())
	assert.Zero(t, q.Approvals.Len())

	_, err := q.List(workflow.Kind("payslip"))
	assert.Error(t, err)
}

func TestQueue_RefreshFailureKeepsLists(t *testing.T) {
	gw := &fakeQueueGateway{
		tickets: []gateway.Ticket{{ID: "t1", Category: "IT", Status: domain.StatusPending}},
	}
	q := workflow.NewQueue(gw)
	require.NoError(t, q.Refresh(context.Background()))

	gw.listErr = gateway.ErrUnauthorized
	gw.tickets = nil
	err := q.Refresh(context.Background())
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Equal(t, 1, q.Tickets.Len())
}
