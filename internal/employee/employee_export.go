package employee

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportHeaders = []any{
	"ID", "Name", "Email", "Role", "Department", "Designation", "Phone", "Presence",
	"Casual Leave", "Sick Leave", "Privilege Leave",
}

func buildWorkbook(rows []EmployeeResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}

	for i, e := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			e.ID, e.Name, e.Email, e.Role, e.Department, e.Designation, e.Phone, e.Presence,
			e.LeaveBalance.Casual, e.LeaveBalance.Sick, e.LeaveBalance.Privilege,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
