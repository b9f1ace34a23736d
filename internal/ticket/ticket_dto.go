package ticket

type CreateTicketRequest struct {
	Category string `json:"category" binding:"required,oneof=IT HR Payroll"`
	Details  string `json:"details" binding:"required,max=2000"`
}

type ResolveRequest struct {
	Status  string `json:"status" binding:"required"`
	Version *int   `json:"version" binding:"omitempty,min=1"`
}

type TicketResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Category   string  `json:"category"`
	Details    string  `json:"details"`
	Status     string  `json:"status"`
	Version    int     `json:"version"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
	ResolvedAt *string `json:"resolved_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
