package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hr-portal/internal/calendar"
	"hr-portal/internal/domain"
	"hr-portal/internal/employee"
	"hr-portal/internal/leave"
	leaveerrors "hr-portal/internal/leave/errors"
	"hr-portal/internal/ticket"

	"go.uber.org/zap"
)

// Assistant answers one chat turn. Implementations may call out to a language
// model; ToolAssistant answers from the HR tools directly.
type Assistant interface {
	Reply(ctx context.Context, actor domain.Actor, employeeID, message string) (string, error)
}

type ProfileReader interface {
	GetByID(ctx context.Context, actor domain.Actor, id string) (employee.EmployeeResponse, error)
}

type LeaveCreator interface {
	Create(ctx context.Context, actor domain.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
}

type TicketCreator interface {
	Create(ctx context.Context, actor domain.Actor, req ticket.CreateTicketRequest) (ticket.TicketResponse, error)
}

// Leaves and tickets are always filed as the caller, so they cannot be filed
// while chatting about someone else.
const onBehalfRefusal = "DENIED: Leave requests and tickets can only be filed for yourself. " +
	"Ask the employee to apply from their own account."

const helpText = "I can help with: your leave balance (\"what is my leave balance\"), " +
	"upcoming holidays (\"show holidays\"), applying for leave " +
	"(\"apply 2 days casual leave from 2026-03-02\") and raising a ticket " +
	"(\"raise IT ticket: laptop will not boot\")."

var (
	applyPattern  = regexp.MustCompile(`(?i)\bapply\b.*?(\d+)\s*days?\s+(?:of\s+)?(casual|sick|privilege)`)
	datePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	ticketPattern = regexp.MustCompile(`(?i)\b(?:raise|open|create)\s+(?:an?\s+)?(it|hr|payroll)\s+ticket\b[\s:,-]*(.*)$`)
)

type ToolAssistant struct {
	profiles ProfileReader
	leaves   LeaveCreator
	tickets  TicketCreator
	holidays []calendar.Holiday
	now      func() time.Time
	logger   *zap.Logger
}

func NewToolAssistant(
	profiles ProfileReader,
	leaves LeaveCreator,
	tickets TicketCreator,
	holidays []calendar.Holiday,
	logger ...*zap.Logger,
) *ToolAssistant {
	l := zap.L().Named("chat.assistant")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.assistant")
	}
	if holidays == nil {
		holidays = calendar.Holidays2026
	}
	return &ToolAssistant{
		profiles: profiles,
		leaves:   leaves,
		tickets:  tickets,
		holidays: holidays,
		now:      time.Now,
		logger:   l,
	}
}

func (a *ToolAssistant) Reply(ctx context.Context, actor domain.Actor, employeeID, message string) (string, error) {
	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)

	writes := ticketPattern.MatchString(msg) || applyPattern.MatchString(msg)
	if writes && employeeID != actor.UserID {
		a.logger.Info("write tool refused for another employee",
			zap.String("actor_id", actor.UserID),
			zap.String("employee_id", employeeID),
		)
		return onBehalfRefusal, nil
	}

	switch {
	case ticketPattern.MatchString(msg):
		m := ticketPattern.FindStringSubmatch(msg)
		return a.raiseTicket(ctx, actor, m[1], m[2])
	case applyPattern.MatchString(msg):
		m := applyPattern.FindStringSubmatch(msg)
		days, _ := strconv.Atoi(m[1])
		return a.applyLeave(ctx, actor, m[2], days, datePattern.FindString(msg))
	case strings.Contains(lower, "balance"):
		return a.balance(ctx, actor, employeeID)
	case strings.Contains(lower, "holiday"):
		return a.upcomingHolidays(), nil
	default:
		return helpText, nil
	}
}

func (a *ToolAssistant) balance(ctx context.Context, actor domain.Actor, employeeID string) (string, error) {
	a.logger.Debug("tool called: employee details", zap.String("employee_id", employeeID))
	emp, err := a.profiles.GetByID(ctx, actor, employeeID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Name: %s, Role: %s, Casual Leaves Left: %d, Sick Leaves Left: %d, Privilege Leaves Left: %d",
		emp.Name, emp.Designation,
		emp.LeaveBalance.Casual, emp.LeaveBalance.Sick, emp.LeaveBalance.Privilege,
	), nil
}

func (a *ToolAssistant) upcomingHolidays() string {
	a.logger.Debug("tool called: upcoming holidays")
	upcoming := calendar.Upcoming(a.holidays, a.now())
	if len(upcoming) == 0 {
		return "There are no more company holidays this year."
	}
	var b strings.Builder
	b.WriteString("Here are the upcoming company holidays:")
	for _, h := range upcoming {
		fmt.Fprintf(&b, "\n- %s (%s)", h.Name, h.Date.Format("2006-01-02"))
	}
	return b.String()
}

func (a *ToolAssistant) applyLeave(ctx context.Context, actor domain.Actor, kind string, days int, start string) (string, error) {
	leaveType, err := domain.ParseLeaveType(kind)
	if err != nil {
		return "Invalid leave type. Must be 'casual', 'sick' or 'privilege'.", nil
	}
	if start == "" {
		start = a.now().AddDate(0, 0, 1).Format("2006-01-02")
	}
	a.logger.Debug("tool called: apply for leave",
		zap.String("employee_id", actor.UserID),
		zap.String("type", string(leaveType)),
		zap.Int("days", days),
	)

	created, err := a.leaves.Create(ctx, actor, leave.CreateLeaveRequest{
		LeaveType: string(leaveType),
		StartDate: start,
		Days:      days,
		Reason:    "Applied via HR assistant",
	})
	switch {
	case errors.Is(err, leaveerrors.ErrInsufficientBalance):
		left := "not enough"
		if emp, perr := a.profiles.GetByID(ctx, actor, actor.UserID); perr == nil {
			left = strconv.Itoa(balanceOf(emp.LeaveBalance, leaveType))
		}
		return fmt.Sprintf("DENIED: Only %s %s days left.", left, strings.ToLower(string(leaveType))), nil
	case errors.Is(err, leaveerrors.ErrLeaveOverlap):
		return "DENIED: You already have leave booked in that period.", nil
	case err != nil:
		return "", err
	}

	return fmt.Sprintf("SUCCESS: %d days of %s applied from %s. Request %s is pending HR approval.",
		days, leaveType, created.StartDate, created.ID), nil
}

func (a *ToolAssistant) raiseTicket(ctx context.Context, actor domain.Actor, category, description string) (string, error) {
	category = normalizeCategory(category)
	description = strings.TrimSpace(description)
	if description == "" {
		return "Please describe the issue, e.g. \"raise IT ticket: VPN keeps disconnecting\".", nil
	}
	a.logger.Debug("tool called: raise ticket", zap.String("employee_id", actor.UserID), zap.String("category", category))

	t, err := a.tickets.Create(ctx, actor, ticket.CreateTicketRequest{Category: category, Details: description})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SUCCESS: Ticket %s has been raised for the %s department regarding: '%s'. The team will contact you soon.",
		t.ID, category, description), nil
}

func normalizeCategory(c string) string {
	switch strings.ToLower(c) {
	case "it":
		return "IT"
	case "hr":
		return "HR"
	default:
		return "Payroll"
	}
}

func balanceOf(b employee.LeaveBalance, t domain.LeaveType) int {
	switch t {
	case domain.LeaveCasual:
		return b.Casual
	case domain.LeaveSick:
		return b.Sick
	default:
		return b.Privilege
	}
}
