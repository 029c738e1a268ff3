package models

import "errors"

type EnvStatus string

const (
	EnvStatusNotReviewed EnvStatus = "Not Reviewed"
	EnvStatusInProgress  EnvStatus = "In Progress"
	EnvStatusCompleted   EnvStatus = "Completed"
)

// ParseEnvStatus validates a form value against the closed status set.
// The empty string is allowed and means "unset".
func ParseEnvStatus(s string) (EnvStatus, error) {
	switch EnvStatus(s) {
	case "", EnvStatusNotReviewed, EnvStatusInProgress, EnvStatusCompleted:
		return EnvStatus(s), nil
	default:
		return "", errors.New("invalid env status")
	}
}
