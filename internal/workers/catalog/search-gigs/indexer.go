// internal/workers/catalog/search-gigs/indexer.go
package searchgigs

import (
	"context"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/models"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
)

// Document converts a gig to its indexed form.
func (h *Handler) Document(g models.Gig) GigDocument {
	c := h.classifier.Classify(g.Category)
	return GigDocument{
		ID:          g.ID,
		Title:       g.Title,
		Category:    g.Category,
		Description: g.Description,
		Bucket:      string(classifycategory.Resolve(c, h.config.UnmatchedPolicy)),
		Matched:     c.Matched,
		Price:       g.Price,
		Rating:      g.Rating,
		SalesCount:  g.SalesCount,
		CoverImage:  g.CoverImage,
		WorkerID:    g.WorkerID(),
	}
}

// Reindex writes gigs into the search index and returns how many were accepted.
// Gigs without an id are skipped.
func (h *Handler) Reindex(ctx context.Context, gigs []models.Gig) (int, error) {
	if h.index == nil {
		return 0, nil
	}
	if err := h.index.EnsureIndex(ctx, h.config.Index, indexMapping); err != nil {
		return 0, apperrors.NewIndexingFailedError(err)
	}

	docs := make(map[string]interface{}, len(gigs))
	for _, g := range gigs {
		if g.ID == "" {
			continue
		}
		docs[g.ID] = h.Document(g)
	}
	n, err := h.index.BulkIndex(ctx, h.config.Index, docs)
	if err != nil {
		return 0, apperrors.NewIndexingFailedError(err)
	}
	return n, nil
}
