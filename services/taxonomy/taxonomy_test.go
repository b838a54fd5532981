package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubcategoriesForKeepsConfiguredOrder(t *testing.T) {
	table := Default()

	assert.Equal(t, []string{"Tiffin", "Chutney", "Beverages", "Fruits"}, table.SubcategoriesFor("breakfast", "veg"))
	assert.Equal(t, 10, table.MaxItemsFor("breakfast", "veg", "Chutney"))
}

func TestUnknownPairFallsBackToGeneral(t *testing.T) {
	table := Default()

	assert.Equal(t, []string{FallbackSubcategory}, table.SubcategoriesFor("brunch", "veg"))
	assert.Equal(t, 0, table.MaxItemsFor("brunch", "veg", FallbackSubcategory))
	assert.Equal(t, 0, table.MaxItemsFor("breakfast", "veg", "Unknown"))
	assert.False(t, table.Contains(Leaf{Category: "brunch", MessType: "veg", Subcategory: FallbackSubcategory}))
}

func TestDisabledLeafIsStillContained(t *testing.T) {
	table := Default()
	leaf := Leaf{Category: "snacks", MessType: "special", Subcategory: "Snacks"}

	assert.True(t, table.Contains(leaf))
	assert.Equal(t, 0, table.MaxItemsFor(leaf.Category, leaf.MessType, leaf.Subcategory))
}

func TestTableIsNotMutatedThroughResults(t *testing.T) {
	table := Default()

	subs := table.SubcategoriesFor("lunch", "veg")
	subs[0] = "Changed"

	assert.Equal(t, "Rice", table.SubcategoriesFor("lunch", "veg")[0])
}

func TestNewCopiesInput(t *testing.T) {
	entries := []Entry{{Category: "lunch", MessType: "veg", Subcategories: []Subcategory{{Name: "Rice", MaxItems: 2}}}}
	table, err := New(entries)
	require.NoError(t, err)

	entries[0].Subcategories[0].MaxItems = 99

	assert.Equal(t, 2, table.MaxItemsFor("lunch", "veg", "Rice"))
}

func TestNewRejectsBadEntries(t *testing.T) {
	cases := map[string][]Entry{
		"empty category": {{Category: " ", MessType: "veg"}},
		"duplicate pair": {
			{Category: "lunch", MessType: "veg"},
			{Category: "lunch", MessType: "veg"},
		},
		"duplicate subcategory": {{Category: "lunch", MessType: "veg", Subcategories: []Subcategory{{Name: "Rice", MaxItems: 1}, {Name: "Rice", MaxItems: 2}}}},
		"negative cap":          {{Category: "lunch", MessType: "veg", Subcategories: []Subcategory{{Name: "Rice", MaxItems: -1}}}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(entries)
			assert.Error(t, err)
		})
	}
}

func TestLeavesAndMessTypes(t *testing.T) {
	table, err := New([]Entry{
		{Category: "lunch", MessType: "veg", Subcategories: []Subcategory{{Name: "Rice", MaxItems: 2}, {Name: "Dal", MaxItems: 0}}},
		{Category: "dinner", MessType: "non-veg", Subcategories: []Subcategory{{Name: "Chicken", MaxItems: 3}}},
		{Category: "dinner", MessType: "veg", Subcategories: []Subcategory{{Name: "Roti", MaxItems: 4}}},
	})
	require.NoError(t, err)

	leaves := table.Leaves()
	require.Len(t, leaves, 4)
	assert.Equal(t, LeafLimit{Leaf: Leaf{Category: "lunch", MessType: "veg", Subcategory: "Dal"}, MaxItems: 0}, leaves[1])
	assert.Equal(t, []string{"veg", "non-veg"}, table.MessTypes())
	assert.Equal(t, "dinner/veg/Roti", leaves[3].Leaf.String())
}
