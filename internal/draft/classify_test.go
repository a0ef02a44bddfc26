package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		description string
		unit        string
		want        string
	}{
		{
			name:        "hourly unit is always labour",
			description: "bags of cement",
			unit:        entity.UnitHour,
			want:        entity.ItemTypeLabour,
		},
		{
			name:        "material token",
			description: "20 bags of cement",
			unit:        entity.UnitEach,
			want:        entity.ItemTypeMaterial,
		},
		{
			name:        "material token case insensitive",
			description: "Copper PIPE 15mm",
			unit:        entity.UnitMetre,
			want:        entity.ItemTypeMaterial,
		},
		{
			name:        "labour token",
			description: "Hot water system installation",
			unit:        entity.UnitEach,
			want:        entity.ItemTypeLabour,
		},
		{
			name:        "material token beats labour token",
			description: "installation of paint",
			unit:        entity.UnitEach,
			want:        entity.ItemTypeMaterial,
		},
		{
			name:        "no signal defaults to labour",
			description: "miscellaneous works",
			unit:        entity.UnitEach,
			want:        entity.ItemTypeLabour,
		},
		{
			name:        "empty description defaults to labour",
			description: "",
			unit:        entity.UnitEach,
			want:        entity.ItemTypeLabour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.description, tt.unit))
		})
	}
}

func TestClassifyItems(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Callout fee", Unit: entity.UnitEach},
		{Description: "Plaster sheets", Unit: entity.UnitEach},
		{Description: "Plaster sheets", Unit: entity.UnitEach, ItemType: entity.ItemTypeLabour},
	}

	out := ClassifyItems(items)

	assert.Equal(t, entity.ItemTypeLabour, out[0].ItemType)
	assert.Equal(t, entity.ItemTypeMaterial, out[1].ItemType)
	// An explicit type is a manual override and stays put.
	assert.Equal(t, entity.ItemTypeLabour, out[2].ItemType)

	// Input slice is left untouched.
	assert.Empty(t, items[0].ItemType)
}
