package usecase

import (
	"fmt"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/normalize"
)

// Comparator produces one verdict per canonical field for a pair. The field
// order follows the configured field list, so reports are reproducible
// across pairs and across runs.
type Comparator struct {
	fields []domain.FieldSpec
	rules  *normalize.Ruleset
}

func NewComparator(fields []domain.FieldSpec, rules *normalize.Ruleset) *Comparator {
	if len(fields) == 0 {
		fields = domain.DefaultFieldSet()
	}
	if rules == nil {
		rules = normalize.DefaultRuleset()
	}
	return &Comparator{fields: fields, rules: rules}
}

func (c *Comparator) Fields() []domain.FieldSpec { return c.fields }

// Compare walks the canonical field set and judges both sides' values. A
// present-but-unparseable date or amount degrades to missing for that side;
// the raw value stays in the verdict for manual inspection.
func (c *Comparator) Compare(a, b domain.ExtractedFields) []domain.FieldVerdict {
	verdicts := make([]domain.FieldVerdict, 0, len(c.fields))
	for _, spec := range c.fields {
		rawA, okA := a[spec.Name]
		rawB, okB := b[spec.Name]

		verdict := domain.FieldVerdict{
			Field:  spec.Name,
			ValueA: rawA.Raw,
			ValueB: rawB.Raw,
		}

		valueA, parsedA := c.rules.Normalize(spec.Kind, rawA.Raw)
		valueB, parsedB := c.rules.Normalize(spec.Kind, rawB.Raw)

		presentA := okA && parsedA
		presentB := okB && parsedB
		if okA && !parsedA && rawA.Raw != "" {
			verdict.Detail = fmt.Sprintf("unparseable %s value on PDF side", spec.Kind)
		}
		if okB && !parsedB && rawB.Raw != "" {
			verdict.Detail = fmt.Sprintf("unparseable %s value on spreadsheet side", spec.Kind)
		}

		switch {
		case !presentA && !presentB:
			verdict.Status = domain.VerdictMissingBoth
		case !presentA:
			verdict.Status = domain.VerdictMissingA
		case !presentB:
			verdict.Status = domain.VerdictMissingB
		case c.rules.Equal(valueA, valueB):
			verdict.Status = domain.VerdictMatch
		default:
			verdict.Status = domain.VerdictMismatch
			verdict.Detail = fmt.Sprintf("normalized %q vs %q", valueA.Canonical(), valueB.Canonical())
		}

		verdicts = append(verdicts, verdict)
	}
	return verdicts
}

// Status folds per-field verdicts into the pair status. MISSING_BOTH only
// flags the pair when the field is mandatory.
func (c *Comparator) Status(verdicts []domain.FieldVerdict) domain.PairStatus {
	mandatory := make(map[string]bool, len(c.fields))
	for _, spec := range c.fields {
		mandatory[spec.Name] = spec.Mandatory
	}
	for _, verdict := range verdicts {
		switch verdict.Status {
		case domain.VerdictMismatch, domain.VerdictMissingA, domain.VerdictMissingB:
			return domain.PairFlagged
		case domain.VerdictMissingBoth:
			if mandatory[verdict.Field] {
				return domain.PairFlagged
			}
		}
	}
	return domain.PairClean
}
