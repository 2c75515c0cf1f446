package models

import (
	"bytes"
	"encoding/json"
)

// Gig is a service listing as returned by the backend. Optional fields are
// pointers so that "absent" and "zero" stay distinguishable.
type Gig struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	CoverImage  *string  `json:"coverImage,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	SalesCount  *int     `json:"salesCount,omitempty"`
	Worker      Ref      `json:"worker,omitempty"`
}

// WorkerID returns the owning worker's id whether or not the reference was populated.
func (g Gig) WorkerID() string {
	return g.Worker.ID
}

// Ref is a document reference that the backend sends either as a bare id
// string or as a populated object carrying _id.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" {
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}
