// internal/workers/catalog/classify-category/classifier.go
package classifycategory

import (
	"fmt"
	"strings"
)

// UnmatchedPolicy names where unclassified gigs are shown.
type UnmatchedPolicy string

const (
	PolicyHome  UnmatchedPolicy = "home"
	PolicyOther UnmatchedPolicy = "other"
)

// ParsePolicy validates s. An empty string selects PolicyHome.
func ParsePolicy(s string) (UnmatchedPolicy, error) {
	switch UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyHome:
		return PolicyHome, nil
	case PolicyOther:
		return PolicyOther, nil
	}
	return "", fmt.Errorf("unknown unmatched policy %q", s)
}

// Classification is the result of matching one category string.
type Classification struct {
	Bucket  Bucket `json:"bucket"`
	Matched bool   `json:"matched"`
	Keyword string `json:"keyword,omitempty"`
}

// Classifier evaluates an ordered rule list. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// NewClassifier validates and copies rules.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		cp[i] = Rule{Bucket: r.Bucket, Keywords: append([]string(nil), r.Keywords...)}
	}
	return &Classifier{rules: cp}, nil
}

// MustDefault returns a classifier over DefaultRules.
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultRules())
	if err != nil {
		panic(err)
	}
	return c
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = Rule{Bucket: r.Bucket, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify returns the first rule whose keyword is a substring of the
// lowercased category, or Unclassified.
func (c *Classifier) Classify(category string) Classification {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return Classification{Bucket: Unclassified}
	}
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(normalized, kw) {
				return Classification{Bucket: r.Bucket, Matched: true, Keyword: kw}
			}
		}
	}
	return Classification{Bucket: Unclassified}
}

// Resolve maps a classification to the row it is displayed in.
func Resolve(c Classification, policy UnmatchedPolicy) Bucket {
	if c.Matched {
		return c.Bucket
	}
	if policy == PolicyOther {
		return BucketOther
	}
	return BucketHome
}

// Rows returns the display row keys in order for policy. Rows are listed
// even when they end up empty.
func (c *Classifier) Rows(policy UnmatchedPolicy) []Bucket {
	rows := make([]Bucket, 0, len(c.rules)+1)
	for _, r := range c.rules {
		rows = append(rows, r.Bucket)
	}
	if policy == PolicyOther {
		rows = append(rows, BucketOther)
	}
	return rows
}
