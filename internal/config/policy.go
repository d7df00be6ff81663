package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

// Policy is the reviewable part of the configuration: which document
// sources exist at which access level, and which terms count as
// sensitive. It ships with compiled-in defaults and can be replaced
// wholesale by a YAML file, so deployments tune it without a rebuild
// and tests inject their own without touching process state.
type Policy struct {
	Sources           []domain.DocumentSource `yaml:"sources"`
	SensitiveKeywords []string                `yaml:"sensitive_keywords"`
}

// LoadPolicy reads the policy file when a path is given, otherwise
// returns the defaults. A file that names only one of the two sections
// keeps the default for the other.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	var loaded Policy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}

	if len(loaded.Sources) > 0 {
		policy.Sources = loaded.Sources
	}
	if len(loaded.SensitiveKeywords) > 0 {
		policy.SensitiveKeywords = loaded.SensitiveKeywords
	}
	return policy, nil
}

func DefaultPolicy() Policy {
	return Policy{
		Sources: []domain.DocumentSource{
			{Name: "novacorp_employee_handbook.txt", AccessLevel: domain.AccessPublic},
			{Name: "novacorp_managers_guide.txt", AccessLevel: domain.AccessManager},
			{Name: "novacorp_hr_legal_manual.txt", AccessLevel: domain.AccessHR},
		},
		SensitiveKeywords: defaultSensitiveKeywords(),
	}
}

// defaultSensitiveKeywords spans termination and discipline,
// harassment and discrimination, legal action, compensation disputes,
// and privacy violations. Matching is case-insensitive substring.
func defaultSensitiveKeywords() []string {
	return []string{
		"termination", "firing", "dismissal", "layoff", "downsizing", "redundancy",
		"suspension", "disciplinary", "misconduct", "violation", "breach",
		"insubordination", "tardiness", "absenteeism", "performance issues",

		"harassment", "discrimination", "bullying", "retaliation", "hostile work environment",
		"sexual harassment", "racial discrimination", "age discrimination", "gender discrimination",
		"disability discrimination", "religious discrimination", "workplace violence",
		"intimidation", "stalking", "unwanted advances", "inappropriate behavior",

		"legal action", "lawsuit", "litigation", "court", "attorney", "lawyer",
		"complaint", "grievance", "investigation", "whistleblower", "ethics violation",
		"regulatory compliance", "audit", "fine", "penalty", "settlement",
		"worker compensation", "unemployment claim", "wrongful termination",

		"wage theft", "unpaid overtime", "salary dispute", "benefits denial",
		"pension issues", "401k problems", "payroll error", "compensation dispute",

		"data breach", "privacy violation", "confidential information", "trade secrets",
		"non-disclosure", "background check", "drug test", "surveillance",
	}
}
