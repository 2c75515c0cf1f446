// internal/workers/catalog/classify-category/models.go
package classifycategory

// Input accepts a single category or a batch.
type Input struct {
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

type Result struct {
	Category string `json:"category"`
	Classification
	Row Bucket `json:"row"`
}

type Output struct {
	Results []Result        `json:"results"`
	Policy  UnmatchedPolicy `json:"policy"`
}
