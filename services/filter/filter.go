package filter

import (
	"strings"

	"menupick-admin-worker/models"
)

// Criteria composes as a logical AND; an empty field matches everything.
type Criteria struct {
	Category    string `form:"category" json:"category"`
	MessType    string `form:"mess_type" json:"mess_type"`
	Subcategory string `form:"subcategory" json:"subcategory"`
	Query       string `form:"q" json:"q"`
	Tag         string `form:"tag" json:"tag"`
}

func (c Criteria) Match(item models.MealItem) bool {
	if c.Category != "" && item.Category != c.Category {
		return false
	}
	if c.MessType != "" && item.MessType != c.MessType {
		return false
	}
	if c.Subcategory != "" && item.Subcategory != c.Subcategory {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		if !strings.Contains(strings.ToLower(item.Name), q) && !strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	return item.Tags.Contains(c.Tag)
}

// Apply 保留原本的順序
func (c Criteria) Apply(items []models.MealItem) []models.MealItem {
	out := make([]models.MealItem, 0, len(items))
	for _, item := range items {
		if c.Match(item) {
			out = append(out, item)
		}
	}
	return out
}
