package entity

// GSTRate is the Australian GST rate. Fixed, not configurable per invoice.
const GSTRate = 0.10

// Units of measure for line items
const (
	UnitHour        = "hr"
	UnitEach        = "ea"
	UnitMetre       = "m"
	UnitSquareMetre = "m2"
	UnitCubicMetre  = "m3"
	UnitKilogram    = "kg"
	UnitLitre       = "l"
)

// ValidUnits lists every accepted unit of measure
var ValidUnits = []string{
	UnitHour, UnitEach, UnitMetre, UnitSquareMetre,
	UnitCubicMetre, UnitKilogram, UnitLitre,
}

// Line item types
const (
	ItemTypeLabour   = "labour"
	ItemTypeMaterial = "material"
)

// Invoice statuses
const (
	StatusDraft = "draft"
	StatusSaved = "saved"
	StatusSent  = "sent"
)

// DefaultCustomerName is used when the source text names no customer
const DefaultCustomerName = "Customer"

// DefaultDueDays is the payment term applied when drafting from free text
const DefaultDueDays = 14

// IsValidUnit reports whether u is an accepted unit of measure
func IsValidUnit(u string) bool {
	for _, v := range ValidUnits {
		if u == v {
			return true
		}
	}
	return false
}

// IsValidItemType reports whether t is an accepted item type
func IsValidItemType(t string) bool {
	return t == ItemTypeLabour || t == ItemTypeMaterial
}
