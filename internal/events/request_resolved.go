package events

import "time"

const (
	RequestResolvedTopic     = "hr.requests.resolved.v1"
	RequestResolvedEventType = "request_resolved"
)

// RequestKind names the aggregate a resolution applies to.
type RequestKind string

const (
	KindLeave    RequestKind = "leave"
	KindTicket   RequestKind = "ticket"
	KindApproval RequestKind = "approval"
)

// RequestResolvedEvent is published once per Pending -> Approved|Rejected transition.
type RequestResolvedEvent struct {
	EventType   string      `json:"event_type"`
	RequestID   string      `json:"request_id,omitempty"`
	Kind        RequestKind `json:"kind"`
	ItemID      string      `json:"item_id"`
	RequesterID string      `json:"requester_id"`
	ResolvedBy  string      `json:"resolved_by"`
	Status      string      `json:"status"`
	Version     int         `json:"version"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
