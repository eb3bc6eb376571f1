package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveType struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_types_name"`
	YearlyAllocation decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Active           bool            `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveType) TableName() string {
	return "leave_types"
}
