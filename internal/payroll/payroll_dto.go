package payroll

type CreatePayslipRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Period     string `json:"period" binding:"required,datetime=2006-01"`
	BaseSalary int64  `json:"base_salary" binding:"required,gt=0"`
	Allowance  int64  `json:"allowance" binding:"gte=0"`
	Deduction  int64  `json:"deduction" binding:"gte=0"`
}

type PayslipResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Period     string `json:"period"`
	BaseSalary int64  `json:"base_salary"`
	Allowance  int64  `json:"allowance"`
	Deduction  int64  `json:"deduction"`
	NetSalary  int64  `json:"net_salary"`
	CreatedAt  string `json:"created_at"`
}
