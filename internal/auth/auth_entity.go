package auth

import (
	"time"

	"github.com/google/uuid"
)

// User holds credentials; its id is the employee id.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
