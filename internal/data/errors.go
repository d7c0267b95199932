package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrUniversityNotFound  = errors.New("university not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrOptionNotFound      = errors.New("checklist option not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrAdminUserNotFound   = errors.New("admin user not found")
)
