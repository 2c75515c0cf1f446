// internal/workers/locations/list-cities/models.go
package listcities

import "gigdial/internal/models"

// FallbackCities is served whenever the city list cannot be fetched.
var FallbackCities = []models.City{
	{Name: "Mumbai", State: "Maharashtra"},
	{Name: "Delhi", State: "Delhi"},
	{Name: "Bengaluru", State: "Karnataka"},
	{Name: "Pune", State: "Maharashtra"},
}

type Input struct{}

type Output struct {
	Cities   []models.City `json:"cities"`
	Fallback bool          `json:"fallback"`
}
