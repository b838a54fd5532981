package capacity

import (
	"menupick-admin-worker/models"
	"menupick-admin-worker/services/taxonomy"
)

type Result struct {
	CurrentCount    int  `json:"current_count"`
	MaxAllowed      int  `json:"max_allowed"`
	HasReachedLimit bool `json:"has_reached_limit"`
}

// Checker 是 capacity 唯一的檢查點，snapshot 必須是這次操作開始後讀到的
type Checker struct {
	table *taxonomy.Table
}

func New(table *taxonomy.Table) *Checker {
	return &Checker{table: table}
}

func (c *Checker) Check(snapshot []models.MealItem, leaf taxonomy.Leaf) Result {
	return c.CheckPending(snapshot, leaf, 0)
}

// CheckPending counts pending items of the same call as already present in the leaf.
func (c *Checker) CheckPending(snapshot []models.MealItem, leaf taxonomy.Leaf, pending int) Result {
	current := pending
	for _, item := range snapshot {
		if item.SameCoordinate(leaf.MessType, leaf.Category, leaf.Subcategory) {
			current++
		}
	}
	limit := c.table.MaxItemsFor(leaf.Category, leaf.MessType, leaf.Subcategory)
	return Result{
		CurrentCount:    current,
		MaxAllowed:      limit,
		HasReachedLimit: current >= limit,
	}
}
