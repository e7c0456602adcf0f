package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/normalize"
)

// Rules is the optional YAML comparison-rules file. Every section is
// optional; omitted sections keep the built-in defaults.
type Rules struct {
	Fields          []domain.FieldSpec `yaml:"fields"`
	DateLayouts     []string           `yaml:"date_layouts"`
	AmountTolerance float64            `yaml:"amount_tolerance"`
	OrderlessNames  *bool              `yaml:"orderless_names"`
}

func DefaultRules() Rules {
	return Rules{}
}

// LoadRules reads a rules file. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, domain.WrapError(domain.ErrInvalidInput, "config.LoadRules", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, domain.WrapError(domain.ErrInvalidInput, "config.LoadRules",
			fmt.Errorf("parse %s: %w", path, err))
	}
	if err := rules.validate(); err != nil {
		return Rules{}, domain.WrapError(domain.ErrInvalidInput, "config.LoadRules", err)
	}
	return rules, nil
}

func (r Rules) validate() error {
	seen := make(map[string]struct{}, len(r.Fields))
	for _, spec := range r.Fields {
		if spec.Name == "" {
			return fmt.Errorf("field with empty name")
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("duplicate field %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		switch spec.Kind {
		case domain.KindIdentifier, domain.KindName, domain.KindAddress,
			domain.KindDate, domain.KindAmount, domain.KindText:
		default:
			return fmt.Errorf("field %q has unknown kind %q", spec.Name, spec.Kind)
		}
	}
	if r.AmountTolerance < 0 {
		return fmt.Errorf("amount_tolerance must not be negative, got %g", r.AmountTolerance)
	}
	return nil
}

// FieldSet returns the configured canonical fields, or the built-in set when
// the rules file names none.
func (r Rules) FieldSet() []domain.FieldSpec {
	if len(r.Fields) == 0 {
		return domain.DefaultFieldSet()
	}
	return r.Fields
}

// Ruleset builds the normalization rules the comparator runs under.
func (r Rules) Ruleset() *normalize.Ruleset {
	orderless := true
	if r.OrderlessNames != nil {
		orderless = *r.OrderlessNames
	}
	return normalize.NewRuleset(r.DateLayouts, r.AmountTolerance, orderless)
}
