package contacterrors

import (
	"net/http"

	"go-leaves/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidContactType = apperror.New(
		apperror.CodeInvalidInput,
		"type must be manager or reliever",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"email: invalid email address",
		http.StatusBadRequest,
	)
)
