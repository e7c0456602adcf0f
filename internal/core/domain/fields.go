package domain

// FieldKind selects the equivalence rule applied when two values of a
// canonical field are compared.
type FieldKind string

const (
	KindIdentifier FieldKind = "identifier"
	KindName       FieldKind = "name"
	KindAddress    FieldKind = "address"
	KindDate       FieldKind = "date"
	KindAmount     FieldKind = "amount"
	KindText       FieldKind = "text"
)

// FieldSpec describes one canonical claim field. Mandatory fields flag a
// pair even when the field is missing from both documents.
type FieldSpec struct {
	Name      string    `yaml:"name" json:"name"`
	Kind      FieldKind `yaml:"kind" json:"kind"`
	Mandatory bool      `yaml:"mandatory" json:"mandatory"`
}

// DefaultFieldSet is the canonical field set compared across both documents
// of every pair. Order is stable so reports are reproducible across runs.
func DefaultFieldSet() []FieldSpec {
	return []FieldSpec{
		{Name: "policy_number", Kind: KindIdentifier, Mandatory: true},
		{Name: "insured_name", Kind: KindName, Mandatory: true},
		{Name: "address", Kind: KindAddress},
		{Name: "claim_date", Kind: KindDate},
		{Name: "amount", Kind: KindAmount, Mandatory: true},
	}
}

// FieldNames projects the spec list to its names, preserving order.
func FieldNames(specs []FieldSpec) []string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names
}
