// internal/workers/directory/get-worker-profile/models.go
package getworkerprofile

import (
	"gigdial/internal/models"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"
)

// BackPath is where a visitor lands after a missing profile.
const BackPath = "/workers"

type Input struct {
	WorkerID string `json:"workerId"`
}

type Output struct {
	Worker          models.WorkerProfile    `json:"worker"`
	Gigs            []aggregategigrows.Card `json:"gigs"`
	GigsUnavailable bool                    `json:"gigsUnavailable"`
}
