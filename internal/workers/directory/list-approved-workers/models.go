// internal/workers/directory/list-approved-workers/models.go
package listapprovedworkers

import "gigdial/internal/models"

// CategoryAll disables the skill filter.
const CategoryAll = "All"

type Input struct {
	Search   string `json:"search"`
	Category string `json:"category"`
}

type Output struct {
	Workers []models.WorkerProfile `json:"workers"`
	Total   int                    `json:"total"`
}
