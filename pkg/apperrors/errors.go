package apperrors

import "errors"

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrNameTooLong       = errors.New("name exceeds 30 characters")
	ErrProtectedDatabase = errors.New("cannot drop system database")
	ErrProtectedUser     = errors.New("cannot modify system user")
	ErrEmptyData         = errors.New("no data available for chart")
	ErrNoEncoding        = errors.New("no encoding configuration provided")
	ErrUnsupportedChart  = errors.New("unsupported chart type")
	ErrUnsupportedMetric = errors.New("unsupported metric type")
)
