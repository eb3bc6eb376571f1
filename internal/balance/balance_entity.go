package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is keyed by (employee, leave type, year). Remaining is always
// written as allocated - used.
type Balance struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	LeaveTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year        int             `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Allocated   decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Used        decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Remaining   decimal.Decimal `gorm:"type:numeric(6,2);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Balance) TableName() string {
	return "leave_balances"
}
