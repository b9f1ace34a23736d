package employee

type UpdateProfileRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Department  *string `json:"department" binding:"omitempty,max=100"`
	Designation *string `json:"designation" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Presence    *string `json:"presence" binding:"omitempty,oneof=Active 'On Leave' Remote"`
}

type LeaveBalance struct {
	Casual    int `json:"casual"`
	Sick      int `json:"sick"`
	Privilege int `json:"privilege"`
}

type EmployeeResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	Department   string       `json:"department"`
	Designation  string       `json:"designation"`
	Phone        string       `json:"phone"`
	Presence     string       `json:"presence"`
	LeaveBalance LeaveBalance `json:"leave_balance"`
}
