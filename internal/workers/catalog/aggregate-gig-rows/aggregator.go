// internal/workers/catalog/aggregate-gig-rows/aggregator.go
package aggregategigrows

import (
	"strconv"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/models"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

// Aggregator groups gigs into display rows. It holds no mutable state.
type Aggregator struct {
	classifier  *classifycategory.Classifier
	policy      classifycategory.UnmatchedPolicy
	placeholder string
}

func NewAggregator(classifier *classifycategory.Classifier, policy classifycategory.UnmatchedPolicy, placeholder string) *Aggregator {
	return &Aggregator{classifier: classifier, policy: policy, placeholder: placeholder}
}

// ToCard applies display defaults: rating "0", the placeholder image and zero bookings.
func ToCard(g models.Gig, placeholder string) Card {
	card := Card{
		ID:       g.ID,
		Title:    g.Title,
		Rating:   "0",
		Image:    placeholder,
		Category: g.Category,
		Price:    g.Price,
		WorkerID: g.WorkerID(),
	}
	if g.Rating != nil {
		card.Rating = strconv.FormatFloat(*g.Rating, 'f', -1, 64)
	}
	if g.CoverImage != nil && *g.CoverImage != "" {
		card.Image = *g.CoverImage
	}
	if g.SalesCount != nil {
		card.Bookings = *g.SalesCount
	}
	return card
}

// Card renders g with this aggregator's placeholder.
func (a *Aggregator) Card(g models.Gig) Card {
	return ToCard(g, a.placeholder)
}

func (a *Aggregator) emptyRows() ([]Row, map[classifycategory.Bucket]int) {
	keys := a.classifier.Rows(a.policy)
	rows := make([]Row, len(keys))
	index := make(map[classifycategory.Bucket]int, len(keys))
	for i, k := range keys {
		rows[i] = Row{Key: k, Title: k.Title(), Cards: []Card{}}
		index[k] = i
	}
	return rows, index
}

// Aggregate classifies gigs and appends them to rows in input order. Every
// gig lands in exactly one row, since rule tables cover all six buckets.
func (a *Aggregator) Aggregate(gigs []models.Gig) Rows {
	rows, index := a.emptyRows()
	for _, g := range gigs {
		bucket := classifycategory.Resolve(a.classifier.Classify(g.Category), a.policy)
		i := index[bucket]
		rows[i].Cards = append(rows[i].Cards, a.Card(g))
	}
	return Rows{Rows: rows, State: StateReady}
}

// Failed returns every row empty, flagged as a retryable error.
func (a *Aggregator) Failed(err error) Rows {
	rows, _ := a.emptyRows()
	return Rows{
		Rows:      rows,
		State:     StateError,
		Retryable: true,
		Error:     apperrors.AsStandard(err),
	}
}
