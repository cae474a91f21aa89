package services

import "errors"

var (
	// ErrInvalidEmailCount is returned when classify is asked for a
	// non-positive number of emails
	ErrInvalidEmailCount = errors.New("invalid number of emails")

	// ErrNoEmailsToClassify is returned when the classify selection is empty
	ErrNoEmailsToClassify = errors.New("no emails to classify")
)
