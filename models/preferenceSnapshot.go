package models

import (
	"encoding/json"
	"time"
)

// PreferenceSnapshot 由學生端寫入，這裡只讀
type PreferenceSnapshot struct {
	StudentID  string     `gorm:"column:student_id;primary_key" json:"student_id"`
	MessType   string     `gorm:"column:mess_type" json:"mess_type"`
	Selections string     `gorm:"column:selections;type:text" json:"selections"`
	UpdatedAt  *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (PreferenceSnapshot) TableName() string {
	return "preference_snapshots"
}

// Selected decodes the item id -> selected mapping. A malformed document reads as no
// selections. An explicit false is not a selection; any other present value is.
func (p PreferenceSnapshot) Selected() map[string]bool {
	result := make(map[string]bool)
	if p.Selections == "" {
		return result
	}
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(p.Selections), &raw); err != nil {
		return result
	}
	for itemID, value := range raw {
		switch v := value.(type) {
		case bool:
			if v {
				result[itemID] = true
			}
		case nil:
		default:
			result[itemID] = true
		}
	}
	return result
}
