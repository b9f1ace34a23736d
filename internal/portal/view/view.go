// Package view holds the portal's page enumeration and the role-filtered menu.
package view

import (
	"fmt"

	"hr-portal/internal/domain"
)

type Page string

const (
	PageDashboard     Page = "dashboard"
	PageEmployees     Page = "employees"
	PageApprovals     Page = "approvals"
	PagePayroll       Page = "payroll"
	PageNotifications Page = "notifications"
	PageChat          Page = "chat"
	PageProfile       Page = "profile"
	PageCalendar      Page = "calendar"
	PageSettings      Page = "settings"
	PageRecruiting    Page = "recruiting"
)

var pages = []Page{
	PageDashboard, PageEmployees, PageApprovals, PagePayroll, PageNotifications,
	PageChat, PageProfile, PageCalendar, PageSettings, PageRecruiting,
}

// Pages lists every page in a stable order.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

func ParsePage(v string) (Page, error) {
	for _, p := range pages {
		if string(p) == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q", v)
}

type MenuItem struct {
	Page  Page
	Label string
}

// Menu order per role. A page missing from a role's list is hidden for it.
var menus = map[domain.Role][]MenuItem{
	domain.RoleHR: {
		{PageDashboard, "Overview"},
		{PageEmployees, "All Employees"},
		{PageApprovals, "Approvals"},
		{PageCalendar, "Calendar"},
		{PagePayroll, "Payroll"},
		{PageRecruiting, "Recruiting"},
		{PageChat, "AI Assistant"},
		{PageProfile, "My Profile"},
		{PageSettings, "Settings"},
	},
	domain.RoleEmployee: {
		{PageDashboard, "My Dashboard"},
		{PageProfile, "My Profile"},
		{PageNotifications, "Leave Requests"},
		{PageCalendar, "Calendar"},
		{PagePayroll, "My Payslips"},
		{PageChat, "AI Assistant"},
	},
}

// Menu returns the ordered menu for role. Unknown roles get no items.
func Menu(role domain.Role) []MenuItem {
	items := menus[role]
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}

func Visible(role domain.Role, page Page) bool {
	for _, item := range menus[role] {
		if item.Page == page {
			return true
		}
	}
	return false
}
