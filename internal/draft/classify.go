package draft

import (
	"strings"

	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
)

// Token lists for labour/material classification. Matched as
// case-insensitive substrings against the item description.
var materialTokens = []string{
	"bags", "sheets", "rolls", "fittings", "fixtures", "parts", "supplies",
	"cement", "timber", "pipe", "cable", "wire", "plaster", "paint",
	"tiles", "screws", "bolts", "nails", "brackets",
}

var labourTokens = []string{
	"hours", "installation", "labour", "repair", "service",
	"callout", "consultation", "inspection",
}

// Classify assigns an item type from unit and description. Rules in
// priority order: hourly units are always labour; then material tokens;
// then labour tokens; anything without a signal defaults to labour.
// The same rules apply whether the item came from free-text drafting,
// a catalog pick or a correction.
func Classify(description, unit string) string {
	if unit == entity.UnitHour {
		return entity.ItemTypeLabour
	}

	desc := strings.ToLower(description)

	for _, token := range materialTokens {
		if strings.Contains(desc, token) {
			return entity.ItemTypeMaterial
		}
	}

	for _, token := range labourTokens {
		if strings.Contains(desc, token) {
			return entity.ItemTypeLabour
		}
	}

	return entity.ItemTypeLabour
}

// ClassifyItems fills in the item type for every item that does not
// carry a valid one. Items with an explicit type are left alone, since
// a manual override always wins.
func ClassifyItems(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, item := range items {
		if !entity.IsValidItemType(item.ItemType) {
			item.ItemType = Classify(item.Description, item.Unit)
		}
		out[i] = item
	}
	return out
}
