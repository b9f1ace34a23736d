package approval

type CreateApprovalRequest struct {
	Category string   `json:"category" binding:"required,max=50"`
	Details  string   `json:"details" binding:"required,max=2000"`
	Amount   *float64 `json:"amount" binding:"omitempty,gt=0"`
}

type ResolveRequest struct {
	Status  string `json:"status" binding:"required"`
	Version *int   `json:"version" binding:"omitempty,min=1"`
}

type ApprovalResponse struct {
	TrxID      string   `json:"trx_id"`
	EmployeeID string   `json:"employee_id"`
	Category   string   `json:"category"`
	Details    string   `json:"details"`
	Amount     *float64 `json:"amount,omitempty"`
	Status     string   `json:"status"`
	Version    int      `json:"version"`
	ResolvedBy *string  `json:"resolved_by,omitempty"`
	ResolvedAt *string  `json:"resolved_at,omitempty"`
	CreatedAt  string   `json:"created_at"`
}
