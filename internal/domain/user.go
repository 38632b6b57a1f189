package domain

import "time"

// User is an administrative account. It shares the store with the attendance
// entities but takes no part in the registration workflow.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
