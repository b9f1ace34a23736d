package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state shared by leave requests, tickets and approvals.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// ParseStatus accepts any casing, plus "Open" as an alias of Pending.
func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "pending", "open":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown status %q", v)
	}
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether from -> to is a legal resolution.
func CanTransition(from, to Status) bool {
	return from == StatusPending && to.Terminal()
}

func (s Status) String() string {
	return string(s)
}
