package domain

import (
	"fmt"
	"strings"
)

type LeaveType string

const (
	LeaveCasual    LeaveType = "Casual Leave"
	LeaveSick      LeaveType = "Sick Leave"
	LeavePrivilege LeaveType = "Privilege Leave"
)

// Yearly allowance per leave type.
const (
	DefaultCasualDays    = 12
	DefaultSickDays      = 10
	DefaultPrivilegeDays = 15
)

func ParseLeaveType(v string) (LeaveType, error) {
	s := strings.ToLower(strings.TrimSpace(v))
	s = strings.TrimSuffix(s, " leave")
	switch s {
	case "casual":
		return LeaveCasual, nil
	case "sick":
		return LeaveSick, nil
	case "privilege", "privileged":
		return LeavePrivilege, nil
	default:
		return "", fmt.Errorf("unknown leave type %q", v)
	}
}

// BalanceColumn names the employees column holding the balance for t.
func (t LeaveType) BalanceColumn() string {
	switch t {
	case LeaveCasual:
		return "casual_balance"
	case LeaveSick:
		return "sick_balance"
	case LeavePrivilege:
		return "privilege_balance"
	default:
		return ""
	}
}

func (t LeaveType) String() string {
	return string(t)
}
