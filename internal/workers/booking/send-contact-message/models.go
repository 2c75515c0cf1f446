// internal/workers/booking/send-contact-message/models.go
package sendcontactmessage

// Input is the contact-message body. Token is only set on the workflow
// surface; HTTP callers are identified by their session.
type Input struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	GigID       string `json:"gigId,omitempty"`
	IntentID    string `json:"intentId,omitempty"`

	UserID string `json:"userId,omitempty"`
	Token  string `json:"token,omitempty"`
}

// body is the validated subset of Input.
type body struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
	GigID       string `json:"gigId,omitempty"`
	IntentID    string `json:"intentId,omitempty"`
}

type Output struct {
	MessageID    string `json:"messageId"`
	UpstreamID   string `json:"upstreamId"`
	Audited      bool   `json:"audited"`
	EventID      string `json:"eventId,omitempty"`
	EmailSent    bool   `json:"emailSent"`
	IntentClosed bool   `json:"intentClosed"`
	SentAt       string `json:"sentAt"`
}

// contactEvent is published to the events topic.
type contactEvent struct {
	MessageID   string `json:"messageId"`
	UpstreamID  string `json:"upstreamId"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	GigID       string `json:"gigId,omitempty"`
	SentAt      string `json:"sentAt"`
}
