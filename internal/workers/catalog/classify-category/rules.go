// internal/workers/catalog/classify-category/rules.go
package classifycategory

import (
	"fmt"
	"strings"
)

// Bucket is a display grouping for gigs.
type Bucket string

const (
	BucketDigital  Bucket = "digitalServices"
	BucketWellness Bucket = "wellnessServices"
	BucketHome     Bucket = "homeServices"
	BucketTutoring Bucket = "tutoringServices"
	BucketCreative Bucket = "creativeServices"
	BucketBeauty   Bucket = "beautyServices"

	// BucketOther only appears as a row under PolicyOther.
	BucketOther Bucket = "otherServices"

	// Unclassified is returned by Classify when no rule matches.
	Unclassified Bucket = ""
)

var bucketTitles = map[Bucket]string{
	BucketDigital:  "Digital Services",
	BucketWellness: "Wellness Services",
	BucketHome:     "Home Services",
	BucketTutoring: "Tutoring Services",
	BucketCreative: "Creative Services",
	BucketBeauty:   "Beauty Services",
	BucketOther:    "Other Services",
}

// Title returns the row heading for b.
func (b Bucket) Title() string {
	if t, ok := bucketTitles[b]; ok {
		return t
	}
	return string(b)
}

// ruleBuckets are the six buckets every rule table must cover.
var ruleBuckets = []Bucket{BucketDigital, BucketWellness, BucketHome, BucketTutoring, BucketCreative, BucketBeauty}

// Known reports whether b is one of the six rule buckets.
func (b Bucket) Known() bool {
	for _, k := range ruleBuckets {
		if b == k {
			return true
		}
	}
	return false
}

// Rule maps a bucket to the lowercase substrings that select it.
type Rule struct {
	Bucket   Bucket   `json:"bucket" yaml:"bucket"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DefaultRules returns the built-in table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Bucket: BucketDigital, Keywords: []string{
			"digital", "web", "software", "programming", "computer", "seo", "social media", "data entry", "it support",
		}},
		{Bucket: BucketWellness, Keywords: []string{
			"wellness", "yoga", "fitness", "massage", "therapy", "nutrition", "meditation", "health",
		}},
		{Bucket: BucketHome, Keywords: []string{
			"home", "electric", "plumb", "clean", "repair", "carpent", "paint", "pest", "appliance", "maintenance",
		}},
		{Bucket: BucketTutoring, Keywords: []string{
			"tutor", "teach", "lesson", "coach", "education", "language", "music class", "exam",
		}},
		{Bucket: BucketCreative, Keywords: []string{
			"creative", "design", "photo", "video", "music", "artist", "artwork", "illustration", "writing", "craft", "editing",
		}},
		{Bucket: BucketBeauty, Keywords: []string{
			"beauty", "salon", "makeup", "hair", "spa", "nail", "groom", "skin",
		}},
	}
}

// ValidateRules checks that every bucket appears exactly once, in any order,
// and that every keyword is non-empty, trimmed and lowercase.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("rule table is empty")
	}
	seen := make(map[Bucket]bool, len(rules))
	for i, r := range rules {
		if !r.Bucket.Known() {
			return fmt.Errorf("rule %d: unknown bucket %q", i, r.Bucket)
		}
		if seen[r.Bucket] {
			return fmt.Errorf("rule %d: duplicate bucket %q", i, r.Bucket)
		}
		seen[r.Bucket] = true
		if len(r.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s): no keywords", i, r.Bucket)
		}
		for _, kw := range r.Keywords {
			if kw == "" || strings.TrimSpace(kw) != kw {
				return fmt.Errorf("rule %d (%s): keyword %q is empty or padded", i, r.Bucket, kw)
			}
			if strings.ToLower(kw) != kw {
				return fmt.Errorf("rule %d (%s): keyword %q is not lowercase", i, r.Bucket, kw)
			}
		}
	}
	for _, b := range ruleBuckets {
		if !seen[b] {
			return fmt.Errorf("rule table is missing bucket %q", b)
		}
	}
	return nil
}
