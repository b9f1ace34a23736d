package rbac

import "hr-portal/internal/domain"

// Resources guarded by RBACAuthorize.
const (
	ResourceProfile  = "profile"
	ResourceEmployee = "employee"
	ResourceLeave    = "leave"
	ResourceTicket   = "ticket"
	ResourceApproval = "approval"
	ResourceChat     = "chat"
	ResourceCalendar = "calendar"
	ResourcePayroll  = "payroll"
	ResourcePolicy   = "policy"
)

// Actions.
const (
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionResolve = "resolve"
	ActionExport  = "export"
)

type Policy struct {
	Role     domain.Role
	Resource string
	Action   string
}

// DefaultPolicies is what an employee may do; HR inherits it and adds the
// directory and the resolution rights.
var DefaultPolicies = []Policy{
	{domain.RoleEmployee, ResourceProfile, ActionRead},
	{domain.RoleEmployee, ResourceProfile, ActionUpdate},
	{domain.RoleEmployee, ResourceLeave, ActionRead},
	{domain.RoleEmployee, ResourceLeave, ActionCreate},
	{domain.RoleEmployee, ResourceTicket, ActionRead},
	{domain.RoleEmployee, ResourceTicket, ActionCreate},
	{domain.RoleEmployee, ResourceApproval, ActionCreate},
	{domain.RoleEmployee, ResourceChat, ActionCreate},
	{domain.RoleEmployee, ResourceCalendar, ActionRead},
	{domain.RoleEmployee, ResourcePayroll, ActionRead},
	{domain.RoleEmployee, ResourcePolicy, ActionRead},

	{domain.RoleHR, ResourceEmployee, ActionRead},
	{domain.RoleHR, ResourceEmployee, ActionExport},
	{domain.RoleHR, ResourceLeave, ActionResolve},
	{domain.RoleHR, ResourceTicket, ActionResolve},
	{domain.RoleHR, ResourceApproval, ActionRead},
	{domain.RoleHR, ResourceApproval, ActionResolve},
	{domain.RoleHR, ResourcePayroll, ActionCreate},
	{domain.RoleHR, ResourcePolicy, ActionCreate},
	{domain.RoleHR, ResourcePolicy, ActionUpdate},
}

// RoleInheritance lists child -> parent role links.
var RoleInheritance = [][2]domain.Role{
	{domain.RoleHR, domain.RoleEmployee},
}
