package domain

type EnforceRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Role     Role   `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
