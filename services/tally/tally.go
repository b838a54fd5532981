// Package tally joins the catalog with student preference snapshots. Everything here except
// Service is a pure function over its inputs.
package tally

import (
	"sort"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/models"
	"menupick-admin-worker/services"
	"menupick-admin-worker/services/taxonomy"
)

type Result struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

type RankedItem struct {
	Item       models.MealItem `json:"item"`
	Count      int             `json:"count"`
	Percentage int             `json:"percentage"`
	Rank       int             `json:"rank"`
	Label      string          `json:"label,omitempty"`
}

// View is the ranked list of one taxonomy leaf.
type View struct {
	Leaf  taxonomy.Leaf `json:"leaf"`
	Items []RankedItem  `json:"items"`
}

type Participation struct {
	MessType  string `json:"mess_type"`
	Submitted int    `json:"submitted"`
	Cohort    int    `json:"cohort"`
	Rate      int    `json:"rate"`
}

var labels = []string{enums.MostPopular, enums.SecondMost, enums.ThirdMost}

func percentage(part, whole int) int {
	if whole == 0 {
		return 0
	}
	pct := services.Round(100 * float64(part) / float64(whole))
	if pct > 100 {
		return 100
	}
	return pct
}

// CohortSizes 以學生資料上的 messType 計算人數
func CohortSizes(students []models.Student) map[string]int {
	sizes := make(map[string]int)
	for _, student := range students {
		sizes[student.MessType]++
	}
	return sizes
}

// Tally counts a selection from every snapshot, whatever messType the snapshot records.
// The percentage denominator is the cohort of students whose profile messType equals the item's.
func Tally(catalog []models.MealItem, students []models.Student, snapshots map[string]models.PreferenceSnapshot) map[string]Result {
	selected := make(map[string]int)
	for _, snapshot := range snapshots {
		for itemID, ok := range snapshot.Selected() {
			if ok {
				selected[itemID]++
			}
		}
	}

	cohorts := CohortSizes(students)
	results := make(map[string]Result, len(catalog))
	for _, item := range catalog {
		count := selected[item.ItemID]
		results[item.ItemID] = Result{
			Count:      count,
			Percentage: percentage(count, cohorts[item.MessType]),
		}
	}
	return results
}

// Rank sorts by count descending; ties keep the input order.
func Rank(items []models.MealItem, results map[string]Result) []RankedItem {
	ranked := make([]RankedItem, 0, len(items))
	for _, item := range items {
		result := results[item.ItemID]
		ranked = append(ranked, RankedItem{Item: item, Count: result.Count, Percentage: result.Percentage})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		if i < len(labels) && ranked[i].Count > 0 {
			ranked[i].Label = labels[i]
		}
	}
	return ranked
}

// Views groups the catalog by leaf in order of first appearance and ranks each leaf.
func Views(catalog []models.MealItem, results map[string]Result) []View {
	var leaves []taxonomy.Leaf
	grouped := make(map[taxonomy.Leaf][]models.MealItem)
	for _, item := range catalog {
		leaf := taxonomy.Leaf{Category: item.Category, MessType: item.MessType, Subcategory: item.Subcategory}
		if _, ok := grouped[leaf]; !ok {
			leaves = append(leaves, leaf)
		}
		grouped[leaf] = append(grouped[leaf], item)
	}

	views := make([]View, 0, len(leaves))
	for _, leaf := range leaves {
		views = append(views, View{Leaf: leaf, Items: Rank(grouped[leaf], results)})
	}
	return views
}

// ParticipationRate counts cohort students who have a snapshot at all.
func ParticipationRate(students []models.Student, snapshots map[string]models.PreferenceSnapshot, messType string) Participation {
	p := Participation{MessType: messType}
	for _, student := range students {
		if student.MessType != messType {
			continue
		}
		p.Cohort++
		if _, ok := snapshots[student.ID]; ok {
			p.Submitted++
		}
	}
	p.Rate = percentage(p.Submitted, p.Cohort)
	return p
}

// SnapshotsByStudent 同一個學生有多筆時以最後一筆為準
func SnapshotsByStudent(snapshots []models.PreferenceSnapshot) map[string]models.PreferenceSnapshot {
	byStudent := make(map[string]models.PreferenceSnapshot, len(snapshots))
	for _, snapshot := range snapshots {
		byStudent[snapshot.StudentID] = snapshot
	}
	return byStudent
}
