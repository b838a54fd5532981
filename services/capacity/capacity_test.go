package capacity

import (
	"fmt"
	"testing"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services/taxonomy"

	"github.com/stretchr/testify/assert"
)

func items(messType, category, subcategory string, n int) []models.MealItem {
	var out []models.MealItem
	for i := 0; i < n; i++ {
		out = append(out, models.MealItem{
			ItemID:      fmt.Sprintf("%s-%d", subcategory, i),
			MessType:    messType,
			Category:    category,
			Subcategory: subcategory,
			Name:        fmt.Sprintf("item %d", i),
		})
	}
	return out
}

func TestCheckCountsExactCoordinateOnly(t *testing.T) {
	checker := New(taxonomy.Default())
	snapshot := append(items("veg", "breakfast", "Chutney", 4), items("non-veg", "breakfast", "Chutney", 3)...)
	snapshot = append(snapshot, items("veg", "lunch", "Rice", 2)...)

	result := checker.Check(snapshot, taxonomy.Leaf{Category: "breakfast", MessType: "veg", Subcategory: "Chutney"})

	assert.Equal(t, Result{CurrentCount: 4, MaxAllowed: 10, HasReachedLimit: false}, result)
}

func TestCheckSaturatedLeaf(t *testing.T) {
	checker := New(taxonomy.Default())
	snapshot := items("veg", "breakfast", "Chutney", 10)

	result := checker.Check(snapshot, taxonomy.Leaf{Category: "breakfast", MessType: "veg", Subcategory: "Chutney"})

	assert.True(t, result.HasReachedLimit)
	assert.Equal(t, 10, result.CurrentCount)
	assert.Equal(t, 10, result.MaxAllowed)
}

func TestCheckUnmappedLeafIsAlwaysSaturated(t *testing.T) {
	checker := New(taxonomy.Default())

	result := checker.Check(nil, taxonomy.Leaf{Category: "brunch", MessType: "veg", Subcategory: taxonomy.FallbackSubcategory})

	assert.Equal(t, Result{CurrentCount: 0, MaxAllowed: 0, HasReachedLimit: true}, result)
}

func TestCheckPendingAddsToCurrent(t *testing.T) {
	checker := New(taxonomy.Default())
	leaf := taxonomy.Leaf{Category: "lunch", MessType: "veg", Subcategory: "Roti"}
	snapshot := items("veg", "lunch", "Roti", 3)

	assert.False(t, checker.CheckPending(snapshot, leaf, 1).HasReachedLimit)
	assert.True(t, checker.CheckPending(snapshot, leaf, 2).HasReachedLimit)
}
