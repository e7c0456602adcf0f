package usecase

import (
	"testing"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

func fields(pairs map[string]string) domain.ExtractedFields {
	out := make(domain.ExtractedFields, len(pairs))
	for name, raw := range pairs {
		out[name] = domain.FieldValue{Raw: raw}
	}
	return out
}

func verdictFor(t *testing.T, verdicts []domain.FieldVerdict, field string) domain.FieldVerdict {
	t.Helper()
	for _, v := range verdicts {
		if v.Field == field {
			return v
		}
	}
	t.Fatalf("no verdict for field %q in %v", field, verdicts)
	return domain.FieldVerdict{}
}

func TestCompareProducesOneVerdictPerCanonicalField(t *testing.T) {
	comparator := NewComparator(nil, nil)
	verdicts := comparator.Compare(fields(nil), fields(nil))
	specs := comparator.Fields()
	if len(verdicts) != len(specs) {
		t.Fatalf("expected %d verdicts, got %d", len(specs), len(verdicts))
	}
	for i, spec := range specs {
		if verdicts[i].Field != spec.Name {
			t.Fatalf("verdict order differs from field order at %d: %q vs %q", i, verdicts[i].Field, spec.Name)
		}
	}
}

func TestCompareCleanPair(t *testing.T) {
	comparator := NewComparator(nil, nil)
	a := fields(map[string]string{
		"policy_number": "POL-4471",
		"insured_name":  "Jane Doe",
		"address":       "12 Main St",
		"claim_date":    "03/14/2024",
		"amount":        "$152.30",
	})
	b := fields(map[string]string{
		"policy_number": "pol 4471",
		"insured_name":  "Doe, Jane",
		"address":       "12 main st",
		"claim_date":    "2024-03-14",
		"amount":        "152.3",
	})
	verdicts := comparator.Compare(a, b)
	for _, v := range verdicts {
		if v.Status != domain.VerdictMatch {
			t.Fatalf("expected MATCH for %s, got %s (A=%q B=%q)", v.Field, v.Status, v.ValueA, v.ValueB)
		}
	}
	if status := comparator.Status(verdicts); status != domain.PairClean {
		t.Fatalf("expected CLEAN, got %s", status)
	}
}

func TestCompareMismatchFlagsPair(t *testing.T) {
	comparator := NewComparator(nil, nil)
	a := fields(map[string]string{"insured_name": "Jane Doe", "amount": "152.30"})
	b := fields(map[string]string{"insured_name": "Jane A. Doe", "amount": "152.30"})

	verdicts := comparator.Compare(a, b)
	name := verdictFor(t, verdicts, "insured_name")
	if name.Status != domain.VerdictMismatch {
		t.Fatalf("expected MISMATCH, got %s", name.Status)
	}
	if name.ValueA != "Jane Doe" || name.ValueB != "Jane A. Doe" {
		t.Fatalf("raw values not preserved: %q / %q", name.ValueA, name.ValueB)
	}
	if comparator.Status(verdicts) != domain.PairFlagged {
		t.Fatalf("expected FLAGGED")
	}
}

func TestCompareMissingSides(t *testing.T) {
	comparator := NewComparator(nil, nil)
	a := fields(map[string]string{"policy_number": "POL-1"})
	b := fields(map[string]string{"insured_name": "Jane Doe"})

	verdicts := comparator.Compare(a, b)
	if v := verdictFor(t, verdicts, "policy_number"); v.Status != domain.VerdictMissingB {
		t.Fatalf("expected MISSING_B for policy_number, got %s", v.Status)
	}
	if v := verdictFor(t, verdicts, "insured_name"); v.Status != domain.VerdictMissingA {
		t.Fatalf("expected MISSING_A for insured_name, got %s", v.Status)
	}
	if v := verdictFor(t, verdicts, "address"); v.Status != domain.VerdictMissingBoth {
		t.Fatalf("expected MISSING_BOTH for address, got %s", v.Status)
	}
}

func TestMissingBothFlagsOnlyMandatoryFields(t *testing.T) {
	optionalOnly := NewComparator([]domain.FieldSpec{
		{Name: "address", Kind: domain.KindAddress},
	}, nil)
	verdicts := optionalOnly.Compare(fields(nil), fields(nil))
	if status := optionalOnly.Status(verdicts); status != domain.PairClean {
		t.Fatalf("optional MISSING_BOTH must not flag, got %s", status)
	}

	mandatory := NewComparator([]domain.FieldSpec{
		{Name: "policy_number", Kind: domain.KindIdentifier, Mandatory: true},
	}, nil)
	verdicts = mandatory.Compare(fields(nil), fields(nil))
	if status := mandatory.Status(verdicts); status != domain.PairFlagged {
		t.Fatalf("mandatory MISSING_BOTH must flag, got %s", status)
	}
}

func TestUnparseableDateDegradesToMissingWithRawPreserved(t *testing.T) {
	comparator := NewComparator(nil, nil)
	a := fields(map[string]string{"claim_date": "sometime in March"})
	b := fields(map[string]string{"claim_date": "2024-03-14"})

	v := verdictFor(t, comparator.Compare(a, b), "claim_date")
	if v.Status != domain.VerdictMissingA {
		t.Fatalf("expected MISSING_A for unparseable date, got %s", v.Status)
	}
	if v.ValueA != "sometime in March" {
		t.Fatalf("raw value must survive for inspection, got %q", v.ValueA)
	}
	if v.Detail == "" {
		t.Fatalf("expected an unparseable-value detail")
	}
}

func TestAmountDifferenceOfFiveDollarsFlags(t *testing.T) {
	comparator := NewComparator(nil, nil)
	a := fields(map[string]string{"amount": "100.00"})
	b := fields(map[string]string{"amount": "105.00"})
	v := verdictFor(t, comparator.Compare(a, b), "amount")
	if v.Status != domain.VerdictMismatch {
		t.Fatalf("expected MISMATCH, got %s", v.Status)
	}
}
