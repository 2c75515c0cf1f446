package models

import "time"

// ContactMessage is a customer's message to a worker.
type ContactMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	GigID       string    `json:"gigId,omitempty"`
	Content     string    `json:"content"`
	UpstreamID  string    `json:"upstreamId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
