package model

// ResetMailJob is the queue payload for an outgoing password-reset email.
type ResetMailJob struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}
