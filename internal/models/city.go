package models

type City struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}
