// internal/workers/catalog/search-gigs/models.go
package searchgigs

import (
	"gigdial/internal/models"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

const (
	SourceElasticsearch = "elasticsearch"
	SourceFallback      = "fallback"
)

type Input struct {
	Query  string                  `json:"q"`
	Bucket classifycategory.Bucket `json:"bucket,omitempty"`
	From   int                     `json:"from"`
	Size   int                     `json:"size"`
}

type Hit struct {
	aggregategigrows.Card
	Bucket classifycategory.Bucket `json:"bucket"`
	Score  float64                 `json:"score"`
}

type Output struct {
	Hits   []Hit  `json:"hits"`
	Total  int    `json:"total"`
	Source string `json:"source"`
}

// GigDocument is the indexed form of a gig. Bucket is the resolved row.
type GigDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Bucket      string   `json:"bucket"`
	Matched     bool     `json:"matched"`
	Price       float64  `json:"price"`
	Rating      *float64 `json:"rating,omitempty"`
	SalesCount  *int     `json:"salesCount,omitempty"`
	CoverImage  *string  `json:"coverImage,omitempty"`
	WorkerID    string   `json:"workerId,omitempty"`
}

func (d GigDocument) gig() models.Gig {
	return models.Gig{
		ID:          d.ID,
		Title:       d.Title,
		Category:    d.Category,
		Description: d.Description,
		Price:       d.Price,
		Rating:      d.Rating,
		SalesCount:  d.SalesCount,
		CoverImage:  d.CoverImage,
		Worker:      models.Ref{ID: d.WorkerID},
	}
}
