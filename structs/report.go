package structs

import (
	"time"

	"menupick-admin-worker/services/tally"
)

type SelectionReport struct {
	MessType      string              `json:"mess_type"`
	GeneratedAt   time.Time           `json:"generated_at"`
	Participation tally.Participation `json:"participation"`
	Views         []ViewRanking       `json:"views"`
}

type ViewRanking struct {
	Category    string             `json:"category"`
	Subcategory string             `json:"subcategory"`
	Items       []tally.RankedItem `json:"items"`
}

type LeafCount struct {
	Category    string `json:"category"`
	MessType    string `json:"mess_type"`
	Subcategory string `json:"subcategory"`
	Count       int    `json:"count"`
}
