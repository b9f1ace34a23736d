package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"type" binding:"required"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Days      int    `json:"days" binding:"required,min=1,max=60"`
	Reason    string `json:"reason" binding:"required,max=1000"`
}

// ResolveRequest moves a pending leave to Approved or Rejected. Version is
// optional; when present the update only applies to that version.
type ResolveRequest struct {
	Status  string `json:"status" binding:"required"`
	Version *int   `json:"version" binding:"omitempty,min=1"`
}

type LeaveResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Days       int     `json:"days"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	Version    int     `json:"version"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
