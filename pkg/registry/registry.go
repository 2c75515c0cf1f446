// pkg/registry/registry.go
package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "gigdial/internal/common/errors"
	classifycategory "gigdial/internal/workers/catalog/classify-category"

	"gopkg.in/yaml.v3"
)

const currentVersion = "1"

// LoadRuleFile reads and validates a rule table.
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a rule table. Keywords are trimmed and lowercased before
// validation; unknown fields are rejected.
func Parse(data []byte) (*RuleFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var rf RuleFile
	if err := dec.Decode(&rf); err != nil {
		return nil, apperrors.NewInvalidRulesError(fmt.Sprintf("decode: %v", err))
	}
	if rf.Version == "" {
		rf.Version = currentVersion
	}

	for i := range rf.Rules {
		rf.Rules[i].Bucket = strings.TrimSpace(rf.Rules[i].Bucket)
		for j, kw := range rf.Rules[i].Keywords {
			rf.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
		}
	}

	if err := classifycategory.ValidateRules(rf.ClassifierRules()); err != nil {
		return nil, apperrors.NewInvalidRulesError(err.Error())
	}
	if _, err := classifycategory.ParsePolicy(rf.UnmatchedPolicy); err != nil {
		return nil, apperrors.NewInvalidRulesError(err.Error())
	}
	return &rf, nil
}

// ClassifierRules converts the file entries to classifier rules.
func (rf *RuleFile) ClassifierRules() []classifycategory.Rule {
	out := make([]classifycategory.Rule, 0, len(rf.Rules))
	for _, r := range rf.Rules {
		out = append(out, classifycategory.Rule{
			Bucket:   classifycategory.Bucket(r.Bucket),
			Keywords: append([]string(nil), r.Keywords...),
		})
	}
	return out
}

// FromRules builds a RuleFile for export.
func FromRules(rules []classifycategory.Rule, policy classifycategory.UnmatchedPolicy) *RuleFile {
	rf := &RuleFile{Version: currentVersion, UnmatchedPolicy: string(policy)}
	for _, r := range rules {
		rf.Rules = append(rf.Rules, RuleEntry{Bucket: string(r.Bucket), Keywords: append([]string(nil), r.Keywords...)})
	}
	return rf
}

// Classifier loads path, or returns the built-in classifier when path is empty.
func Classifier(path string) (*classifycategory.Classifier, error) {
	if path == "" {
		return classifycategory.MustDefault(), nil
	}
	rf, err := LoadRuleFile(path)
	if err != nil {
		return nil, err
	}
	return classifycategory.NewClassifier(rf.ClassifierRules())
}

// Write encodes rf as YAML.
func Write(w io.Writer, rf *RuleFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rf); err != nil {
		return err
	}
	return enc.Close()
}
