package main

import (
	"errors"
	"fmt"
	"strings"

	"hr-portal/internal/domain"
	"hr-portal/internal/portal/gateway"
	"hr-portal/internal/portal/workflow"

	"github.com/spf13/cobra"
)

// newResolveCmd builds `approve` and `reject`.
func newResolveCmd(get func() *portal, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " {ticket|approval|leave} <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a pending item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			sess, _, err := p.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			if sess.Role != domain.RoleHR {
				return errors.New("only HR can resolve requests")
			}

			kind, id := workflow.Kind(strings.ToLower(args[0])), args[1]
			q := workflow.NewQueue(p.client)
			if err := p.check(q.Refresh(cmd.Context())); err != nil {
				return err
			}

			if verb == "approve" {
				err = q.Approve(cmd.Context(), kind, id)
			} else {
				err = q.Reject(cmd.Context(), kind, id)
			}
			if errors.Is(err, workflow.ErrResolvedElsewhere) {
				fmt.Fprintf(p.out, "%s %s was already resolved by someone else\n", kind, id)
				return nil
			}
			if err := p.check(err); err != nil {
				return err
			}

			list, _ := q.List(kind)
			fmt.Fprintf(p.out, "%s %s %sd, %d still pending\n", kind, id, verb, list.Len())
			return nil
		},
	}
}

func newLeaveCmd(get func() *portal) *cobra.Command {
	leave := &cobra.Command{
		Use:   "leave",
		Short: "Leave requests",
	}

	var form workflow.LeaveForm
	apply := &cobra.Command{
		Use:   "apply",
		Short: "Apply for leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.requireSession(cmd.Context()); err != nil {
				return err
			}
			created, err := workflow.SubmitLeave(cmd.Context(), p.client, form)
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Leave %s submitted: %d day(s) of %s from %s, status %s\n",
				created.ID, created.Days, created.LeaveType, created.StartDate, created.Status)
			return nil
		},
	}
	apply.Flags().StringVar(&form.LeaveType, "type", "", "Casual, Sick or Privilege")
	apply.Flags().StringVar(&form.StartDate, "start", "", "start date YYYY-MM-DD")
	apply.Flags().StringVar(&form.EndDate, "end", "", "end date YYYY-MM-DD (optional)")
	apply.Flags().IntVar(&form.Days, "days", 0, "number of days")
	apply.Flags().StringVar(&form.Reason, "reason", "", "reason")

	leave.AddCommand(apply)
	return leave
}

func newTicketCmd(get func() *portal) *cobra.Command {
	ticket := &cobra.Command{
		Use:   "ticket",
		Short: "Support tickets",
	}

	var req gateway.NewTicket
	raise := &cobra.Command{
		Use:   "raise",
		Short: "Raise a ticket with IT, HR or Payroll",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.requireSession(cmd.Context()); err != nil {
				return err
			}
			created, err := p.client.CreateTicket(cmd.Context(), req)
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Ticket %s raised for %s\n", created.ID, created.Category)
			return nil
		},
	}
	raise.Flags().StringVar(&req.Category, "category", "IT", "IT, HR or Payroll")
	raise.Flags().StringVar(&req.Details, "details", "", "what is wrong")
	_ = raise.MarkFlagRequired("details")

	ticket.AddCommand(raise)
	return ticket
}

func newApprovalCmd(get func() *portal) *cobra.Command {
	approval := &cobra.Command{
		Use:   "approval",
		Short: "Sensitive transactions that need HR sign-off",
	}

	var (
		req    gateway.NewApproval
		amount float64
	)
	request := &cobra.Command{
		Use:   "request",
		Short: "Request an approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := get()
			if _, _, err := p.requireSession(cmd.Context()); err != nil {
				return err
			}
			if cmd.Flags().Changed("amount") {
				req.Amount = &amount
			}
			created, err := p.client.CreateApproval(cmd.Context(), req)
			if err != nil {
				return p.check(err)
			}
			fmt.Fprintf(p.out, "Approval %s requested, status %s\n", created.TrxID, created.Status)
			return nil
		},
	}
	request.Flags().StringVar(&req.Category, "category", "", "e.g. Salary Hike")
	request.Flags().StringVar(&req.Details, "details", "", "details")
	request.Flags().Float64Var(&amount, "amount", 0, "amount, if any")
	_ = request.MarkFlagRequired("category")
	_ = request.MarkFlagRequired("details")

	approval.AddCommand(request)
	return approval
}
