// pkg/registry/schema.go
package registry

// RuleFile is the on-disk category rule table. JSON files are accepted as
// well since they are valid YAML.
type RuleFile struct {
	Version         string      `yaml:"version" json:"version"`
	LastUpdated     string      `yaml:"lastUpdated,omitempty" json:"lastUpdated,omitempty"`
	UnmatchedPolicy string      `yaml:"unmatchedPolicy,omitempty" json:"unmatchedPolicy,omitempty"`
	Rules           []RuleEntry `yaml:"rules" json:"rules"`
}

// RuleEntry maps one row to its keywords, in evaluation order.
type RuleEntry struct {
	Bucket   string   `yaml:"bucket" json:"bucket"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}
