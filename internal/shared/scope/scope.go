package scope

import (
	"hr-portal/internal/domain"

	"gorm.io/gorm"
)

// Requester limits a query to rows owned by employeeID.
func Requester(employeeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("employee_id = ?", employeeID)
	}
}

// Status filters by lifecycle status; the zero value keeps every row.
func Status(status domain.Status) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

// Viewer applies Requester unless the viewer is HR.
func Viewer(role domain.Role, userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if role == domain.RoleHR {
			return db
		}
		return db.Where("employee_id = ?", userID)
	}
}
