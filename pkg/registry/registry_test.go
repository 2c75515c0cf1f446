// pkg/registry/registry_test.go
package registry

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "gigdial/internal/common/errors"
	classifycategory "gigdial/internal/workers/catalog/classify-category"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRules = `
version: "1"
unmatchedPolicy: other
rules:
  - bucket: homeServices
    keywords: ["  Plumb", "electric"]
  - bucket: creativeServices
    keywords: [design]
  - bucket: digitalServices
    keywords: [web]
  - bucket: wellnessServices
    keywords: [massage]
  - bucket: tutoringServices
    keywords: [tutor]
  - bucket: beautyServices
    keywords: [salon]
`

// fullTableBody is a minimal rule table covering every bucket.
const fullTableBody = `rules:
  - bucket: digitalServices
    keywords: [web]
  - bucket: wellnessServices
    keywords: [yoga]
  - bucket: homeServices
    keywords: [plumb]
  - bucket: tutoringServices
    keywords: [tutor]
  - bucket: creativeServices
    keywords: [design]
  - bucket: beautyServices
    keywords: [salon]
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRuleFile(t *testing.T) {
	rf, err := LoadRuleFile(writeFile(t, "rules.yaml", sampleRules))
	require.NoError(t, err)

	assert.Equal(t, "other", rf.UnmatchedPolicy)
	want := []classifycategory.Rule{
		{Bucket: classifycategory.BucketHome, Keywords: []string{"plumb", "electric"}},
		{Bucket: classifycategory.BucketCreative, Keywords: []string{"design"}},
		{Bucket: classifycategory.BucketDigital, Keywords: []string{"web"}},
		{Bucket: classifycategory.BucketWellness, Keywords: []string{"massage"}},
		{Bucket: classifycategory.BucketTutoring, Keywords: []string{"tutor"}},
		{Bucket: classifycategory.BucketBeauty, Keywords: []string{"salon"}},
	}
	if diff := cmp.Diff(want, rf.ClassifierRules()); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRuleFile_JSON(t *testing.T) {
	rf, err := LoadRuleFile(writeFile(t, "rules.json", `{"version":"1","rules":[`+
		`{"bucket":"beautyServices","keywords":["salon"]},`+
		`{"bucket":"digitalServices","keywords":["web"]},`+
		`{"bucket":"wellnessServices","keywords":["yoga"]},`+
		`{"bucket":"homeServices","keywords":["plumb"]},`+
		`{"bucket":"tutoringServices","keywords":["tutor"]},`+
		`{"bucket":"creativeServices","keywords":["design"]}]}`))
	require.NoError(t, err)
	require.Len(t, rf.Rules, 6)
	assert.Equal(t, "beautyServices", rf.Rules[0].Bucket)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown bucket", "rules:\n  - bucket: gardening\n    keywords: [lawn]\n"},
		{"duplicate bucket", "rules:\n  - bucket: homeServices\n    keywords: [a]\n  - bucket: homeServices\n    keywords: [b]\n"},
		{"empty keyword", "rules:\n  - bucket: homeServices\n    keywords: [\"  \"]\n"},
		{"empty table", "version: \"1\"\nrules: []\n"},
		{"unknown field", "rulez: []\n"},
		{"missing buckets", "rules:\n  - bucket: digitalServices\n    keywords: [web]\n"},
		{"bad policy", "unmatchedPolicy: misc\n" + fullTableBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRules), "got %v", err)
		})
	}
}

func TestParse_PartialTableNamesMissingBucket(t *testing.T) {
	body := strings.Replace(fullTableBody, "  - bucket: beautyServices\n    keywords: [salon]\n", "", 1)

	_, err := Parse([]byte(body))
	require.Error(t, err)
	stdErr := apperrors.AsStandard(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidRules, stdErr.Code)
	assert.Contains(t, stdErr.Details, "beautyServices")

	rf, err := Parse([]byte(fullTableBody))
	require.NoError(t, err)
	assert.Len(t, rf.Rules, 6)
}

func TestClassifier(t *testing.T) {
	c, err := Classifier("")
	require.NoError(t, err)
	assert.Equal(t, classifycategory.BucketHome, c.Classify("Home Electric Repair").Bucket)

	c, err = Classifier(writeFile(t, "rules.yaml", sampleRules))
	require.NoError(t, err)
	assert.False(t, c.Classify("Yoga").Matched)

	_, err = Classifier(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromRules(classifycategory.DefaultRules(), classifycategory.PolicyHome)))

	rf, err := Parse(buf.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(classifycategory.DefaultRules(), rf.ClassifierRules()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
