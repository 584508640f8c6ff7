package services

import (
	"errors"

	"github.com/anjiri1684/tutor_market/repository"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrServiceInactive   = errors.New("service is not active")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrAlreadyReviewed   = errors.New("order already reviewed")
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrEmptyMessage      = errors.New("message text is empty")
	ErrPaymentDeclined   = errors.New("payment declined")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
