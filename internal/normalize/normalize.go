// Package normalize maps raw extracted field values to comparable forms.
// Every rule is field-kind specific: identifiers casefold and drop
// punctuation, names compare as token sets, dates compare as calendar days
// regardless of source layout, amounts compare within an absolute tolerance.
package normalize

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
)

const defaultAmountTolerance = 0.01

// DefaultDateLayouts are the accepted date layouts, tried in order. The ISO
// form comes first so canonical output re-parses against the first layout.
func DefaultDateLayouts() []string {
	return []string{
		"2006-01-02",
		"01/02/2006",
		"1/2/2006",
		"01-02-2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"02.01.2006",
	}
}

// Ruleset carries the configurable comparison surface: accepted date
// layouts, the absolute amount tolerance, and whether name/address tokens
// compare order-insensitively.
type Ruleset struct {
	dateLayouts     []string
	amountTolerance float64
	orderlessNames  bool
}

func NewRuleset(dateLayouts []string, amountTolerance float64, orderlessNames bool) *Ruleset {
	if len(dateLayouts) == 0 {
		dateLayouts = DefaultDateLayouts()
	}
	if amountTolerance <= 0 {
		amountTolerance = defaultAmountTolerance
	}
	return &Ruleset{
		dateLayouts:     dateLayouts,
		amountTolerance: amountTolerance,
		orderlessNames:  orderlessNames,
	}
}

func DefaultRuleset() *Ruleset {
	return NewRuleset(nil, 0, true)
}

// Value is one normalized field value. Exactly one of Text, Number, Date is
// meaningful, selected by Kind.
type Value struct {
	Kind   domain.FieldKind
	Text   string
	Number float64
	Date   time.Time
}

// Normalize maps a raw value to its comparable form. ok is false when the
// raw value is blank or, for dates and amounts, unparseable; callers treat
// that as a missing field and keep the raw value for the report.
func (r *Ruleset) Normalize(kind domain.FieldKind, raw string) (Value, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{}, false
	}

	switch kind {
	case domain.KindIdentifier:
		text := foldIdentifier(raw)
		if text == "" {
			return Value{}, false
		}
		return Value{Kind: kind, Text: text}, true
	case domain.KindName, domain.KindAddress:
		tokens := foldTokens(raw)
		if len(tokens) == 0 {
			return Value{}, false
		}
		if r.orderlessNames {
			sort.Strings(tokens)
		}
		return Value{Kind: kind, Text: strings.Join(tokens, " ")}, true
	case domain.KindDate:
		day, err := r.parseDate(raw)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: kind, Date: day}, true
	case domain.KindAmount:
		amount, err := ParseAmount(raw)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: kind, Number: amount}, true
	default:
		return Value{Kind: domain.KindText, Text: strings.Join(strings.Fields(strings.ToLower(raw)), " ")}, true
	}
}

// Equal reports whether two normalized values of the same kind are
// equivalent under the ruleset.
func (r *Ruleset) Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case domain.KindDate:
		ay, am, ad := a.Date.Date()
		by, bm, bd := b.Date.Date()
		return ay == by && am == bm && ad == bd
	case domain.KindAmount:
		return math.Abs(a.Number-b.Number) <= r.amountTolerance+1e-9
	default:
		return a.Text == b.Text
	}
}

// Canonical renders the normalized value in its stable report form.
// Normalizing a canonical form yields an equal value again.
func (v Value) Canonical() string {
	switch v.Kind {
	case domain.KindDate:
		return v.Date.Format("2006-01-02")
	case domain.KindAmount:
		return strconv.FormatFloat(round2(v.Number), 'f', 2, 64)
	default:
		return v.Text
	}
}

func (r *Ruleset) parseDate(raw string) (time.Time, error) {
	for _, layout := range r.dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("no accepted date layout matches %q", raw)
}

// ParseAmount strips currency symbols, thousands separators and surrounding
// text, then parses the remainder as a decimal number.
func ParseAmount(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		case r == '(' || r == ')':
			// accounting negatives are out of scope; drop the parens
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return amount, nil
}

func foldIdentifier(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func foldTokens(raw string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, raw)
	return strings.Fields(cleaned)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
