package leavetype

import "github.com/shopspring/decimal"

type UpdateLeaveTypeRequest struct {
	YearlyAllocation decimal.Decimal `json:"yearly_allocation"`
	Active           *bool           `json:"active" binding:"required"`
}

type LeaveTypeResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	YearlyAllocation decimal.Decimal `json:"yearly_allocation"`
	Active           bool            `json:"active"`
}
