package calendar_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hr-portal/internal/calendar"
	"hr-portal/internal/leave"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeApprovedLeaves struct {
	ApprovedBetweenFn func(ctx context.Context, from, to time.Time) ([]leave.LeaveResponse, error)
}

func (f *fakeApprovedLeaves) ApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveResponse, error) {
	return f.ApprovedBetweenFn(ctx, from, to)
}

func TestUpcoming(t *testing.T) {
	got := calendar.Upcoming(calendar.Holidays2026, time.Date(2026, 10, 2, 15, 0, 0, 0, time.UTC))

	assert.Len(t, got, 3)
	assert.Equal(t, "Gandhi Jayanti", got[0].Name)
	assert.Equal(t, "Diwali", got[2].Name)
}

func TestService_Holidays(t *testing.T) {
	svc := calendar.NewService(nil, nil)

	all := svc.Holidays(context.Background(), false)

	assert.Len(t, all, 5)
	assert.Equal(t, calendar.HolidayResponse{Date: "2026-05-01", Name: "May Day"}, all[0])
}

func TestService_Feed(t *testing.T) {
	t.Run("holidays and approved leaves", func(t *testing.T) {
		leaves := &fakeApprovedLeaves{
			ApprovedBetweenFn: func(ctx context.Context, from, to time.Time) ([]leave.LeaveResponse, error) {
				assert.Equal(t, 2026, from.Year())
				return []leave.LeaveResponse{{
					ID: "l1", EmployeeID: "e1", LeaveType: "Sick Leave",
					StartDate: "2026-03-02", EndDate: "2026-03-03", Status: "Approved",
				}}, nil
			},
		}

		body, err := calendar.NewService(nil, leaves).Feed(context.Background(), 2026)

		assert.NoError(t, err)
		assert.Contains(t, body, "BEGIN:VCALENDAR")
		assert.Contains(t, body, "SUMMARY:Diwali")
		assert.Contains(t, body, "holiday-2026-11-08@hr-portal")
		assert.Contains(t, body, "leave-l1@hr-portal")
		assert.Equal(t, 6, strings.Count(body, "BEGIN:VEVENT"))
	})

	t.Run("other year has no holidays", func(t *testing.T) {
		body, err := calendar.NewService(nil, nil).Feed(context.Background(), 2027)

		assert.NoError(t, err)
		assert.NotContains(t, body, "BEGIN:VEVENT")
	})

	t.Run("lookup failure", func(t *testing.T) {
		leaves := &fakeApprovedLeaves{
			ApprovedBetweenFn: func(ctx context.Context, from, to time.Time) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db down")
			},
		}

		_, err := calendar.NewService(nil, leaves).Feed(context.Background(), 2026)

		assert.Error(t, err)
	})
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := calendar.NewHandler(calendar.NewService(nil, nil))
	r.GET("/api/holidays", h.Holidays)
	r.GET("/api/calendar.ics", h.Feed)

	t.Run("holidays envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/holidays", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Independence Day"`)
	})

	t.Run("feed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar.ics?year=2026", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	})

	t.Run("bad year", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar.ics?year=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
