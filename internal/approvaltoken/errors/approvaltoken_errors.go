package approvaltokenerrors

import (
	"net/http"

	"go-leaves/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrRecipientRequired = apperror.New(
		apperror.CodeInvalidInput,
		"recipient email is required",
		http.StatusBadRequest,
	)
	ErrTokenAlreadyUsed = apperror.New(
		apperror.CodeGone,
		"this link has already been used",
		http.StatusGone,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"could not generate approval link",
		http.StatusInternalServerError,
	)
)
