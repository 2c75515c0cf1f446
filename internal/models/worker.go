package models

// WorkerProfile is the public-facing identity of a service provider.
type WorkerProfile struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	Skills       []string        `json:"skills"`
	City         string          `json:"city,omitempty"`
	Rating       *float64        `json:"rating,omitempty"`
	Bio          string          `json:"bio,omitempty"`
	Verified     bool            `json:"verified"`
	ProfileImage string          `json:"profileImage,omitempty"`
	Portfolio    []PortfolioItem `json:"portfolio,omitempty"`
	Reviews      []Review        `json:"reviews,omitempty"`
}

type PortfolioItem struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
	Link     string `json:"link,omitempty"`
}

type Review struct {
	ID        string  `json:"_id,omitempty"`
	Author    string  `json:"author"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment,omitempty"`
	CreatedAt string  `json:"createdAt,omitempty"`
}
