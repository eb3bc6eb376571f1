package leaveerrors

import (
	"fmt"
	"net/http"

	"go-leaves/internal/shared/apperror"
)

var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeCodeRequired = apperror.New(
		apperror.CodeInvalidInput,
		"employee_code is required",
		http.StatusBadRequest,
	)
	ErrDatesRequired = apperror.New(
		apperror.CodeInvalidInput,
		"dates: please select at least one leave date and type",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"dates: invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"dates: invalid leave_type_id",
		http.StatusBadRequest,
	)
	ErrInactiveLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"dates: leave_type_id is not an active leave type",
		http.StatusBadRequest,
	)
	ErrDuplicateLeaveDate = apperror.New(
		apperror.CodeInvalidInput,
		"dates: duplicate leave date",
		http.StatusBadRequest,
	)
	ErrInvalidEmailList = apperror.New(
		apperror.CodeInvalidInput,
		"invalid email address",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient balance",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been processed",
		http.StatusConflict,
	)
	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave action",
		http.StatusBadRequest,
	)
)

// DuplicateLeaveDate names the date that appears twice in one submission.
func DuplicateLeaveDate(date string) error {
	return apperror.Wrap(
		ErrDuplicateLeaveDate,
		apperror.CodeInvalidInput,
		fmt.Sprintf("dates: %s is selected more than once", date),
		http.StatusBadRequest,
	)
}

// InvalidEmails names the field and the offending addresses.
func InvalidEmails(field, bad string) error {
	return apperror.Wrap(
		ErrInvalidEmailList,
		apperror.CodeInvalidInput,
		fmt.Sprintf("%s: invalid email address(es): %s", field, bad),
		http.StatusBadRequest,
	)
}

// InsufficientBalance reports the leave type and what is left of it.
func InsufficientBalance(leaveTypeName, remaining string) error {
	return apperror.Wrap(
		ErrInsufficientBalance,
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("Insufficient %s balance. You have %s days remaining.", leaveTypeName, remaining),
		http.StatusUnprocessableEntity,
	)
}

var ErrExportFailed = apperror.New(
	apperror.CodeInternalError,
	"could not generate export",
	http.StatusInternalServerError,
)
