package calendar

import (
	"context"
	"fmt"
	"time"

	"hr-portal/internal/leave"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

const productID = "-//hr-portal//calendar//EN"

// ApprovedLeaves is the slice of leave.Service the feed needs.
type ApprovedLeaves interface {
	ApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveResponse, error)
}

type Service interface {
	Holidays(ctx context.Context, upcomingOnly bool) []HolidayResponse
	Feed(ctx context.Context, year int) (string, error)
}

type service struct {
	holidays []Holiday
	leaves   ApprovedLeaves
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(holidays []Holiday, leaves ApprovedLeaves, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	if holidays == nil {
		holidays = Holidays2026
	}
	return &service{holidays: holidays, leaves: leaves, now: time.Now, logger: l}
}

func (s *service) Holidays(ctx context.Context, upcomingOnly bool) []HolidayResponse {
	if upcomingOnly {
		return toResponse(Upcoming(s.holidays, s.now()))
	}
	return toResponse(Upcoming(s.holidays, time.Time{}))
}

// Feed renders the holidays and approved leaves of year as an iCalendar document.
func (s *service) Feed(ctx context.Context, year int) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(fmt.Sprintf("Company calendar %d", year))

	stamp := s.now().UTC()
	for _, h := range s.holidays {
		if h.Date.Year() != year {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("holiday-%s@hr-portal", h.Date.Format(dateLayout)))
		ev.SetDtStampTime(stamp)
		ev.SetSummary(h.Name)
		ev.SetAllDayStartAt(h.Date)
		ev.SetAllDayEndAt(h.Date.AddDate(0, 0, 1))
	}

	if s.leaves != nil {
		from := date(year, time.January, 1)
		to := date(year, time.December, 31)
		leaves, err := s.leaves.ApprovedBetween(ctx, from, to)
		if err != nil {
			s.logger.Error("calendar feed leave lookup failed", zap.Int("year", year), zap.Error(err))
			return "", err
		}
		for _, l := range leaves {
			start, err := time.Parse(dateLayout, l.StartDate)
			if err != nil {
				continue
			}
			end, err := time.Parse(dateLayout, l.EndDate)
			if err != nil {
				end = start
			}
			ev := cal.AddEvent(fmt.Sprintf("leave-%s@hr-portal", l.ID))
			ev.SetDtStampTime(stamp)
			ev.SetSummary(fmt.Sprintf("%s (%s)", l.LeaveType, l.EmployeeID))
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(end.AddDate(0, 0, 1))
		}
	}

	return cal.Serialize(), nil
}
