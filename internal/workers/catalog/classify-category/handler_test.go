// internal/workers/catalog/classify-category/handler_test.go
package classifycategory

import (
	"context"
	"testing"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(policy UnmatchedPolicy) *Config {
	return &Config{
		Timeout:         time.Second,
		UnmatchedPolicy: policy,
	}
}

func createTestHandler(t *testing.T, policy UnmatchedPolicy) *Handler {
	return NewHandler(createTestConfig(policy), MustDefault(), logger.NewTestLogger(t))
}

// ==========================
// Classifier
// ==========================

func TestClassify_FirstMatchWins(t *testing.T) {
	c := MustDefault()

	tests := []struct {
		category string
		bucket   Bucket
		keyword  string
	}{
		{"Home Electric Repair", BucketHome, "home"},
		{"Web Design", BucketDigital, "web"},
		{"Yoga Teacher", BucketWellness, "yoga"},
		{"Electrical", BucketHome, "electric"},
		{"Plumbing", BucketHome, "plumb"},
		{"Math Tutor", BucketTutoring, "tutor"},
		{"Wedding Photography", BucketCreative, "photo"},
		{"Bridal Makeup", BucketBeauty, "makeup"},
		{"  SOCIAL MEDIA Marketing ", BucketDigital, "social media"},
		{"Music Class for kids", BucketTutoring, "music class"},
		{"Music Production", BucketCreative, "music"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := c.Classify(tt.category)
			assert.True(t, got.Matched)
			assert.Equal(t, tt.bucket, got.Bucket)
			assert.Equal(t, tt.keyword, got.Keyword)
		})
	}
}

func TestClassify_Unmatched(t *testing.T) {
	c := MustDefault()

	for _, category := range []string{"Astrology", "", "   "} {
		got := c.Classify(category)
		assert.False(t, got.Matched)
		assert.Equal(t, Unclassified, got.Bucket)
	}

	astro := c.Classify("Astrology")
	assert.Equal(t, BucketHome, Resolve(astro, PolicyHome))
	assert.Equal(t, BucketOther, Resolve(astro, PolicyOther))

	repair := c.Classify("Home Electric Repair")
	assert.Equal(t, BucketHome, Resolve(repair, PolicyOther))
}

func TestRows(t *testing.T) {
	c := MustDefault()
	assert.Equal(t, []Bucket{BucketDigital, BucketWellness, BucketHome, BucketTutoring, BucketCreative, BucketBeauty}, c.Rows(PolicyHome))
	assert.Len(t, c.Rows(PolicyOther), 7)
	assert.Equal(t, BucketOther, c.Rows(PolicyOther)[6])
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		wantErr string
	}{
		{"empty", nil, "empty"},
		{"unknown bucket", []Rule{{Bucket: "petServices", Keywords: []string{"dog"}}}, "unknown bucket"},
		{"other is not a rule bucket", []Rule{{Bucket: BucketOther, Keywords: []string{"misc"}}}, "unknown bucket"},
		{"duplicate", []Rule{{Bucket: BucketHome, Keywords: []string{"a"}}, {Bucket: BucketHome, Keywords: []string{"b"}}}, "duplicate"},
		{"no keywords", []Rule{{Bucket: BucketHome}}, "no keywords"},
		{"uppercase", []Rule{{Bucket: BucketHome, Keywords: []string{"Home"}}}, "lowercase"},
		{"blank keyword", []Rule{{Bucket: BucketHome, Keywords: []string{""}}}, "empty"},
		{"missing bucket", DefaultRules()[:5], "missing bucket \"beautyServices\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	require.NoError(t, ValidateRules(DefaultRules()))
}

func TestValidateRules_CustomOrder(t *testing.T) {
	rules := DefaultRules()
	rules[0], rules[5] = rules[5], rules[0]

	c, err := NewClassifier(rules)
	require.NoError(t, err)
	assert.Equal(t, []Bucket{BucketBeauty, BucketWellness, BucketHome, BucketTutoring, BucketCreative, BucketDigital}, c.Rows(PolicyHome))
}

func TestClassifier_RulesAreCopied(t *testing.T) {
	rules := DefaultRules()
	c, err := NewClassifier(rules)
	require.NoError(t, err)

	rules[0].Keywords[0] = "mutated"
	assert.Equal(t, "digital", c.Rules()[0].Keywords[0])
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyHome, p)

	p, err = ParsePolicy("Other")
	require.NoError(t, err)
	assert.Equal(t, PolicyOther, p)

	_, err = ParsePolicy("misc")
	assert.Error(t, err)
}

// ==========================
// Handler
// ==========================

func TestExecute_Batch(t *testing.T) {
	h := createTestHandler(t, PolicyOther)

	out, err := h.Execute(context.Background(), &Input{
		Category:   "Home Electric Repair",
		Categories: []string{"Astrology"},
	})
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, PolicyOther, out.Policy)

	assert.Equal(t, "Home Electric Repair", out.Results[0].Category)
	assert.Equal(t, BucketHome, out.Results[0].Row)

	assert.False(t, out.Results[1].Matched)
	assert.Equal(t, BucketOther, out.Results[1].Row)
}

func TestExecute_NoCategories(t *testing.T) {
	_, err := createTestHandler(t, PolicyHome).Execute(context.Background(), &Input{})
	assert.ErrorIs(t, err, ErrNoCategories)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
}
