// cmd/gigdial/main_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gigdial/internal/common/config"
	"gigdial/internal/common/logger"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
	listcities "gigdial/internal/workers/locations/list-cities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ==========================
// classify
// ==========================

func TestClassifyCommand_Table(t *testing.T) {
	out, err := runCLI(t, "classify", "Home Electric Repair", "Astrology")
	require.NoError(t, err)

	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Home Services")
	assert.Contains(t, out, "(unmatched)")
}

func TestClassifyCommand_JSONWithOtherPolicy(t *testing.T) {
	out, err := runCLI(t, "classify", "--json", "--policy", "other", "Astrology", "Web Design")
	require.NoError(t, err)

	var got classifycategory.Output
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, classifycategory.PolicyOther, got.Policy)
	assert.Equal(t, classifycategory.BucketOther, got.Results[0].Row)
	assert.Equal(t, classifycategory.BucketDigital, got.Results[1].Row)
}

func TestClassifyCommand_RuleFilePolicy(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
version: "1"
unmatchedPolicy: other
rules:
  - bucket: digitalServices
    keywords: [web]
  - bucket: wellnessServices
    keywords: [yoga]
  - bucket: homeServices
    keywords: [electric]
  - bucket: tutoringServices
    keywords: [tutor]
  - bucket: creativeServices
    keywords: [design]
  - bucket: beautyServices
    keywords: [astro]
`)

	out, err := runCLI(t, "classify", "--json", "--rules", path, "Astrology", "Plumbing")
	require.NoError(t, err)

	var got classifycategory.Output
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, classifycategory.BucketBeauty, got.Results[0].Row)
	assert.Equal(t, classifycategory.BucketOther, got.Results[1].Row)
}

func TestClassifyCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "classify")
	assert.Error(t, err)

	_, err = runCLI(t, "classify", "--policy", "misc", "Yoga")
	assert.Error(t, err)

	_, err = runCLI(t, "classify", "--rules", filepath.Join(t.TempDir(), "missing.yaml"), "Yoga")
	assert.Error(t, err)
}

// ==========================
// rules
// ==========================

func TestRulesExportThenCheck(t *testing.T) {
	exported, err := runCLI(t, "rules", "export")
	require.NoError(t, err)
	assert.Contains(t, exported, "digitalServices")
	assert.Contains(t, exported, "unmatchedPolicy: home")

	path := writeFile(t, "exported.yaml", exported)
	out, err := runCLI(t, "rules", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "6 rules")
}

func TestRulesCheck_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "rules:\n  - bucket: petServices\n    keywords: [dog]\n")
	_, err := runCLI(t, "rules", "check", path)
	assert.Error(t, err)

	partial := writeFile(t, "partial.yaml", "rules:\n  - bucket: homeServices\n    keywords: [plumb]\n")
	_, err = runCLI(t, "rules", "check", partial)
	assert.Error(t, err)
}

// ==========================
// config loading
// ==========================

func TestShouldSkipConfig(t *testing.T) {
	root := newRootCommand()

	check, _, err := root.Find([]string{"rules", "check"})
	require.NoError(t, err)
	assert.True(t, shouldSkipConfig(check))

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.False(t, shouldSkipConfig(serve))
}

func TestEnsureConfig_FromFlag(t *testing.T) {
	path := writeFile(t, "config.yaml", `
upstream:
  base_url: "http://upstream.test"
database:
  redis:
    address: "localhost:6379"
catalog:
  unmatched_policy: other
`)
	flag := path
	ctx := newCommandContext(&flag)

	cfg, err := ctx.ensureConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://upstream.test", cfg.Upstream.BaseURL)
	assert.Equal(t, "other", cfg.Catalog.UnmatchedPolicy)

	again, err := ctx.ensureConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "catalog:\n  unmatched_policy: sideways\n")
	_, err := runCLI(t, "--config", path, "serve")
	assert.Error(t, err)
}

// ==========================
// wiring helpers
// ==========================

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewTestLogger(t)

	calls := 0
	err := retryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	}, 5, time.Millisecond, log, "flaky dependency")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = retryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("down")
	}, 2, time.Millisecond, log, "dead dependency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dead dependency failed after 2 attempts")
	assert.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = retryWithBackoff(ctx, func() error { return errors.New("down") }, 5, time.Hour, log, "cancelled")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistrations_SkipsDisabledWorkers(t *testing.T) {
	a := &app{
		cfg: &config.Config{Workers: map[string]config.WorkerConfig{
			listcities.TaskType:       {Enabled: false},
			classifycategory.TaskType: {Enabled: true, MaxJobsActive: 3, Timeout: 2000},
		}},
		logger: logger.NewTestLogger(t),
	}

	regs := a.registrations()
	assert.Len(t, regs, 8)

	for _, r := range regs {
		assert.NotEqual(t, listcities.TaskType, r.TaskType)
		if r.TaskType == classifycategory.TaskType {
			assert.Equal(t, 3, r.MaxJobsActive)
			assert.Equal(t, 2*time.Second, r.Timeout)
		}
	}
}
