package calendar

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

type Holiday struct {
	Date time.Time
	Name string
}

type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Holidays2026 is the official company holiday list.
var Holidays2026 = []Holiday{
	{Date: date(2026, time.May, 1), Name: "May Day"},
	{Date: date(2026, time.August, 15), Name: "Independence Day"},
	{Date: date(2026, time.October, 2), Name: "Gandhi Jayanti"},
	{Date: date(2026, time.October, 14), Name: "Ayudha Pooja"},
	{Date: date(2026, time.November, 8), Name: "Diwali"},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Upcoming returns holidays on or after from, earliest first.
func Upcoming(holidays []Holiday, from time.Time) []Holiday {
	day := date(from.Year(), from.Month(), from.Day())
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		if !h.Date.Before(day) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func toResponse(holidays []Holiday) []HolidayResponse {
	resp := make([]HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, HolidayResponse{Date: h.Date.Format(dateLayout), Name: h.Name})
	}
	return resp
}
