package main

import (
	"context"
	"fmt"
	"strings"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/dashboard"
	"hr-portal/internal/portal/session"
	"hr-portal/internal/portal/view"
	"hr-portal/internal/portal/workflow"

	"github.com/spf13/cobra"
)

func newMenuCmd(get func() *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the menu for your role",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			_, router, err := p.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			return dashboard.RenderMenu(p.out, router.Menu(), router.Active())
		},
	}
}

func newPageCmd(get func() *portal) *cobra.Command {
	return &cobra.Command{
		Use:   "page [name]",
		Short: "Open a page from the menu (dashboard when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			sess, router, err := p.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				page, err := view.ParsePage(strings.ToLower(args[0]))
				if err != nil {
					return err
				}
				if err := router.Select(page); err != nil {
					return err
				}
			}
			return p.check(p.renderPage(cmd.Context(), sess, router.Active()))
		},
	}
}

func (p *portal) renderPage(ctx context.Context, sess session.Session, page view.Page) error {
	loader := dashboard.NewLoader(p.client)

	switch page {
	case view.PageDashboard:
		if sess.Role == domain.RoleHR {
			data, err := loader.LoadHR(ctx, sess.Name)
			if err != nil {
				return err
			}
			return dashboard.RenderHR(p.out, data)
		}
		data, err := loader.LoadEmployee(ctx, sess.UserID)
		if err != nil {
			return err
		}
		return dashboard.RenderEmployee(p.out, data)

	case view.PageEmployees:
		users, err := p.client.ListEmployees(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderEmployees(p.out, users)

	case view.PageApprovals:
		q := workflow.NewQueue(p.client)
		if err := q.Refresh(ctx); err != nil {
			return err
		}
		for _, list := range []*workflow.PendingList{q.Tickets, q.Approvals, q.Leaves} {
			fmt.Fprintf(p.out, "Pending %ss (%d)\n", list.Kind(), list.Len())
			if err := dashboard.RenderItems(p.out, list.Items()); err != nil {
				return err
			}
		}
		return nil

	case view.PageNotifications:
		leaves, err := p.client.ListLeaves(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderLeaves(p.out, leaves)

	case view.PageCalendar:
		holidays, err := p.client.ListHolidays(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderHolidays(p.out, holidays)

	case view.PageProfile:
		data, err := loader.LoadEmployee(ctx, sess.UserID)
		if err != nil {
			return err
		}
		u := data.Profile
		fmt.Fprintf(p.out, "%s <%s>\nRole: %s\nPhone: %s\nPresence: %s\n", u.Name, u.Email, u.Role, u.Phone, u.Presence)
		return dashboard.RenderEmployee(p.out, data)

	case view.PagePayroll:
		slips, err := p.client.ListPayslips(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderPayslips(p.out, slips)

	case view.PageSettings:
		docs, err := p.client.ListPolicies(ctx, "")
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, "Company Policy Documents")
		return dashboard.RenderPolicies(p.out, docs)

	case view.PageChat:
		fmt.Fprintln(p.out, "Ask the assistant with: portal chat \"what is my leave balance\"")
		return nil
	}

	fmt.Fprintf(p.out, "%s: nothing to show yet\n", page)
	return nil
}

func newListCmd(get func() *portal) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list {tickets|approvals|leaves|employees|payslips|holidays|policies}",
		Short:     "List records",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"tickets", "approvals", "leaves", "employees", "payslips", "holidays", "policies"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			sess, _, err := p.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := view.CanList(sess.Role, args[0]); err != nil {
				return err
			}
			return p.check(p.list(cmd.Context(), args[0]))
		},
	}
	return cmd
}

func (p *portal) list(ctx context.Context, what string) error {
	switch what {
	case "tickets":
		tickets, err := p.client.ListTickets(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderItems(p.out, workflow.TicketItems(tickets))
	case "approvals":
		approvals, err := p.client.ListApprovals(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderItems(p.out, workflow.ApprovalItems(approvals))
	case "leaves":
		leaves, err := p.client.ListLeaves(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderLeaves(p.out, leaves)
	case "employees":
		users, err := p.client.ListEmployees(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderEmployees(p.out, users)
	case "payslips":
		slips, err := p.client.ListPayslips(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderPayslips(p.out, slips)
	case "holidays":
		holidays, err := p.client.ListHolidays(ctx)
		if err != nil {
			return err
		}
		return dashboard.RenderHolidays(p.out, holidays)
	case "policies":
		docs, err := p.client.ListPolicies(ctx, "")
		if err != nil {
			return err
		}
		return dashboard.RenderPolicies(p.out, docs)
	}
	return fmt.Errorf("cannot list %q", what)
}
