package chat

type ChatRequest struct {
	Message    string `json:"message" binding:"required,max=2000"`
	EmployeeID string `json:"employee_id"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
