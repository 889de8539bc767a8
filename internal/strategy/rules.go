package strategy

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plandoc/plandoc-sync/internal/conflict"
)

// Rule is one ordered predicate->outcome entry for the rules-based strategy.
// The first rule whose predicate matches decides the conflict; Prefer is
// restricted to local, remote, or manual.
type Rule struct {
	Name   string
	When   func(conflict.Conflict) bool
	Prefer Kind
}

// RuleSpec is the declarative YAML form of a Rule, e.g.:
//
//	- name: remote wins frontmatter
//	  field: remote_text
//	  contains: "status:"
//	  prefer: remote
type RuleSpec struct {
	Name     string `yaml:"name"`
	Field    string `yaml:"field"`
	Contains string `yaml:"contains,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	Prefer   string `yaml:"prefer"`
}

const (
	ruleFieldLocalText  = "local_text"
	ruleFieldRemoteText = "remote_text"
	ruleFieldBaseText   = "base_text"
)

// LoadRules reads and compiles a YAML rules file.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrorCodeRulesReadFailed, Message: "failed to read rules file " + path, Err: err}
	}
	return ParseRules(raw)
}

// ParseRules decodes and compiles declarative rules.
func ParseRules(raw []byte) ([]Rule, error) {
	var specs []RuleSpec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, &Error{Code: ErrorCodeRulesParseFail, Message: "failed to parse rules YAML", Err: err}
	}
	return CompileRules(specs)
}

// CompileRules validates specs and turns them into executable rules.
func CompileRules(specs []RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		rule, err := compileRule(spec)
		if err != nil {
			return nil, &Error{Code: ErrorCodeInvalidRule, Message: fmt.Sprintf("rule %d (%s) is invalid", i+1, spec.Name), Err: err}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileRule(spec RuleSpec) (Rule, error) {
	prefer, err := ParseKind(strings.TrimSpace(spec.Prefer))
	if err != nil {
		return Rule{}, err
	}
	switch prefer {
	case KindLocal, KindRemote, KindManual:
	default:
		return Rule{}, fmt.Errorf("prefer must be local, remote, or manual; got %q", spec.Prefer)
	}

	extract, err := fieldExtractor(spec.Field)
	if err != nil {
		return Rule{}, err
	}

	hasContains := spec.Contains != ""
	hasPattern := spec.Pattern != ""
	if hasContains == hasPattern {
		return Rule{}, fmt.Errorf("exactly one of contains or pattern is required")
	}

	var match func(string) bool
	if hasContains {
		needle := spec.Contains
		match = func(value string) bool { return strings.Contains(value, needle) }
	} else {
		compiled, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid pattern: %w", err)
		}
		match = compiled.MatchString
	}

	return Rule{
		Name:   spec.Name,
		Prefer: prefer,
		When: func(c conflict.Conflict) bool {
			return match(extract(c))
		},
	}, nil
}

func fieldExtractor(field string) (func(conflict.Conflict) string, error) {
	switch strings.TrimSpace(field) {
	case ruleFieldLocalText:
		return func(c conflict.Conflict) string { return c.LocalText }, nil
	case ruleFieldRemoteText, "":
		return func(c conflict.Conflict) string { return c.RemoteText }, nil
	case ruleFieldBaseText:
		return func(c conflict.Conflict) string { return c.BaseText }, nil
	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
}
