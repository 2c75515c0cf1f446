// internal/workers/booking/send-contact-message/config.go
package sendcontactmessage

import "time"

type Config struct {
	Timeout      time.Duration
	LoginPath    string
	EventType    string
	EmailSubject string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		LoginPath:    "/login",
		EventType:    "gigdial.contact-message",
		EmailSubject: "New message on GigDial",
	}
}
