package leavetypeerrors

import (
	"net/http"

	"go-leaves/internal/shared/apperror"
)

var (
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type id",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrNegativeAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"yearly_allocation must not be negative",
		http.StatusBadRequest,
	)
)
