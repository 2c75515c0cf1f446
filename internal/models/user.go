package models

// Registration is the sign-up payload for workers and customers.
// IsProvider discriminates the two.
type Registration struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	IsProvider bool     `json:"isProvider"`
	Phone      string   `json:"phone,omitempty"`
	City       string   `json:"city,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// RegisteredUser is the backend's response to a registration.
type RegisteredUser struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsProvider bool   `json:"isProvider"`
	Token      string `json:"token,omitempty"`
}
