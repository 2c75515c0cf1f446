// internal/workers/catalog/aggregate-gig-rows/handler_test.go
package aggregategigrows

import (
	"context"
	"testing"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"
	classifycategory "gigdial/internal/workers/catalog/classify-category"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "https://cdn.test/placeholder.png"

// ==========================
// Mock Implementations
// ==========================

type MockGigSource struct {
	List  []models.Gig
	Err   error
	Calls int
}

func (m *MockGigSource) Gigs(ctx context.Context) ([]models.Gig, error) {
	m.Calls++
	return m.List, m.Err
}

// ==========================
// Test Helper Functions
// ==========================

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func createTestConfig() *Config {
	return &Config{
		Timeout:          time.Second,
		PlaceholderImage: testPlaceholder,
		UnmatchedPolicy:  classifycategory.PolicyHome,
	}
}

func createTestAggregator(policy classifycategory.UnmatchedPolicy) *Aggregator {
	return NewAggregator(classifycategory.MustDefault(), policy, testPlaceholder)
}

func createTestHandler(t *testing.T, src *MockGigSource) *Handler {
	return NewHandler(createTestConfig(), createTestAggregator(classifycategory.PolicyHome), src, logger.NewTestLogger(t))
}

func sampleGigs() []models.Gig {
	return []models.Gig{
		{ID: "g1", Title: "Fix wiring", Category: "Home Electric Repair", Price: 800, Rating: floatPtr(4.5), SalesCount: intPtr(12), CoverImage: strPtr("https://img/1.png")},
		{ID: "g2", Title: "Read stars", Category: "Astrology", Price: 300},
		{ID: "g3", Title: "Landing page", Category: "Web Development", Price: 5000, Worker: models.Ref{ID: "w-7"}},
		{ID: "g4", Title: "Deep clean", Category: "Cleaning", Price: 1200, CoverImage: strPtr("")},
		{ID: "g5", Title: "Morning yoga", Category: "Yoga", Price: 400, Rating: floatPtr(5)},
	}
}

func rowByKey(t *testing.T, rows Rows, key classifycategory.Bucket) Row {
	t.Helper()
	for _, r := range rows.Rows {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("row %s missing", key)
	return Row{}
}

func cardIDs(r Row) []string {
	ids := make([]string, 0, len(r.Cards))
	for _, c := range r.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// ==========================
// Aggregator
// ==========================

func TestAggregate_GroupsInFetchOrder(t *testing.T) {
	rows := createTestAggregator(classifycategory.PolicyHome).Aggregate(sampleGigs())

	assert.Equal(t, StateReady, rows.State)
	require.Len(t, rows.Rows, 6)
	assert.Equal(t, classifycategory.BucketDigital, rows.Rows[0].Key)
	assert.Equal(t, "Digital Services", rows.Rows[0].Title)

	assert.Equal(t, []string{"g1", "g2", "g4"}, cardIDs(rowByKey(t, rows, classifycategory.BucketHome)))
	assert.Equal(t, []string{"g3"}, cardIDs(rowByKey(t, rows, classifycategory.BucketDigital)))
	assert.Equal(t, []string{"g5"}, cardIDs(rowByKey(t, rows, classifycategory.BucketWellness)))
	assert.Empty(t, rowByKey(t, rows, classifycategory.BucketBeauty).Cards)
	assert.NotNil(t, rowByKey(t, rows, classifycategory.BucketBeauty).Cards)
}

func TestAggregate_OtherPolicy(t *testing.T) {
	rows := createTestAggregator(classifycategory.PolicyOther).Aggregate(sampleGigs())

	require.Len(t, rows.Rows, 7)
	assert.Equal(t, []string{"g1", "g4"}, cardIDs(rowByKey(t, rows, classifycategory.BucketHome)))
	assert.Equal(t, []string{"g2"}, cardIDs(rowByKey(t, rows, classifycategory.BucketOther)))
}

func TestAggregate_CustomRuleOrderKeepsEveryGig(t *testing.T) {
	c, err := classifycategory.NewClassifier([]classifycategory.Rule{
		{Bucket: classifycategory.BucketBeauty, Keywords: []string{"astro"}},
		{Bucket: classifycategory.BucketCreative, Keywords: []string{"design"}},
		{Bucket: classifycategory.BucketDigital, Keywords: []string{"web"}},
		{Bucket: classifycategory.BucketTutoring, Keywords: []string{"tutor"}},
		{Bucket: classifycategory.BucketWellness, Keywords: []string{"yoga"}},
		{Bucket: classifycategory.BucketHome, Keywords: []string{"electric"}},
	})
	require.NoError(t, err)

	rows := NewAggregator(c, classifycategory.PolicyHome, testPlaceholder).Aggregate([]models.Gig{
		{ID: "a", Title: "Site", Category: "Web", Price: 100},
		{ID: "b", Title: "Chart", Category: "Astrology", Price: 200},
		{ID: "c", Title: "Pipes", Category: "Plumbing", Price: 300},
	})

	require.Len(t, rows.Rows, 6)
	assert.Equal(t, classifycategory.BucketBeauty, rows.Rows[0].Key)
	total := 0
	for _, r := range rows.Rows {
		total += len(r.Cards)
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"b"}, cardIDs(rowByKey(t, rows, classifycategory.BucketBeauty)))
	assert.Equal(t, []string{"c"}, cardIDs(rowByKey(t, rows, classifycategory.BucketHome)))
}

func TestAggregate_Idempotent(t *testing.T) {
	agg := createTestAggregator(classifycategory.PolicyHome)
	gigs := sampleGigs()

	first := agg.Aggregate(gigs)
	second := agg.Aggregate(gigs)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregation not idempotent (-first +second):\n%s", diff)
	}
}

func TestToCard_Defaults(t *testing.T) {
	gigs := sampleGigs()

	full := ToCard(gigs[0], testPlaceholder)
	assert.Equal(t, Card{
		ID: "g1", Title: "Fix wiring", Rating: "4.5", Image: "https://img/1.png",
		Category: "Home Electric Repair", Price: 800, Bookings: 12,
	}, full)

	bare := ToCard(gigs[1], testPlaceholder)
	assert.Equal(t, "0", bare.Rating)
	assert.Equal(t, testPlaceholder, bare.Image)
	assert.Equal(t, 0, bare.Bookings)

	assert.Equal(t, testPlaceholder, ToCard(gigs[3], testPlaceholder).Image)
	assert.Equal(t, "5", ToCard(gigs[4], testPlaceholder).Rating)
	assert.Equal(t, "w-7", ToCard(gigs[2], testPlaceholder).WorkerID)
}

func TestFailed_AllRowsEmpty(t *testing.T) {
	rows := createTestAggregator(classifycategory.PolicyHome).Failed(apperrors.NewUpstreamUnavailableError("/api/gigs", assert.AnError))

	assert.Equal(t, StateError, rows.State)
	assert.True(t, rows.Retryable)
	assert.Equal(t, apperrors.ErrCodeUpstreamUnavailable, rows.Error.Code)
	require.Len(t, rows.Rows, 6)
	for _, r := range rows.Rows {
		assert.Empty(t, r.Cards)
	}
}

// ==========================
// Handler
// ==========================

func TestBuild_Success(t *testing.T) {
	src := &MockGigSource{List: sampleGigs()}
	rows := createTestHandler(t, src).Build(context.Background())

	assert.Equal(t, StateReady, rows.State)
	assert.Nil(t, rows.Error)
	assert.Equal(t, 1, src.Calls)
}

func TestBuild_FetchFailureNeverPartial(t *testing.T) {
	src := &MockGigSource{List: sampleGigs(), Err: apperrors.NewUpstreamTimeoutError("/api/gigs")}
	rows := createTestHandler(t, src).Build(context.Background())

	assert.Equal(t, StateError, rows.State)
	assert.True(t, rows.Retryable)
	for _, r := range rows.Rows {
		assert.Empty(t, r.Cards)
	}
}

func TestExecute_UsesSuppliedGigs(t *testing.T) {
	src := &MockGigSource{Err: assert.AnError}
	out, err := createTestHandler(t, src).Execute(context.Background(), &Input{Gigs: sampleGigs()[:1]})
	require.NoError(t, err)
	assert.Equal(t, 0, src.Calls)
	assert.Equal(t, []string{"g1"}, cardIDs(rowByKey(t, out.Rows, classifycategory.BucketHome)))
}

func TestExecute_FetchErrorPropagates(t *testing.T) {
	src := &MockGigSource{Err: apperrors.NewUpstreamUnavailableError("/api/gigs", assert.AnError)}
	_, err := createTestHandler(t, src).Execute(context.Background(), &Input{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUpstreamUnavailable))
}
