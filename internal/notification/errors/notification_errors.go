package notificationerrors

import (
	"net/http"

	"go-leaves/internal/shared/apperror"
)

var (
	ErrUnknownTemplateType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown email template type",
		http.StatusBadRequest,
	)
	ErrTemplateNotFound = apperror.New(
		apperror.CodeNotFound,
		"email template not found",
		http.StatusNotFound,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
)
