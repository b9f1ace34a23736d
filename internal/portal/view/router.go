package view

import (
	"errors"
	"fmt"

	"hr-portal/internal/domain"
)

var ErrPageHidden = errors.New("page not in menu")

// Router holds the single active page for one session.
type Router struct {
	role   domain.Role
	active Page
}

func New(role domain.Role) *Router {
	return &Router{role: role, active: PageDashboard}
}

func (r *Router) Active() Page {
	return r.active
}

func (r *Router) Role() domain.Role {
	return r.role
}

func (r *Router) Menu() []MenuItem {
	return Menu(r.role)
}

// Select switches to page when the role's menu offers it.
func (r *Router) Select(page Page) error {
	if !Visible(r.role, page) {
		return fmt.Errorf("%w: %s for %s", ErrPageHidden, page, r.role)
	}
	r.active = page
	return nil
}

// listings maps each `list` target to the pages that show it.
var listings = map[string][]Page{
	"tickets":   {PageApprovals, PageDashboard},
	"approvals": {PageApprovals},
	"leaves":    {PageApprovals, PageNotifications},
	"employees": {PageEmployees},
	"payslips":  {PagePayroll},
	"holidays":  {PageCalendar},
	"policies":  {PageSettings},
}

// Listings returns every target CanList knows about.
func Listings() []string {
	out := make([]string, 0, len(listings))
	for name := range listings {
		out = append(out, name)
	}
	return out
}

// CanList applies the menu rule to a listing: role must see at least one page
// that shows it.
func CanList(role domain.Role, listing string) error {
	shownOn, ok := listings[listing]
	if !ok {
		return fmt.Errorf("unknown listing %q", listing)
	}
	for _, p := range shownOn {
		if Visible(role, p) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s for %s", ErrPageHidden, listing, role)
}
