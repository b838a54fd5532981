package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackSubcategory is returned for a (category, messType) pair that has no mapping.
// Its cap is 0, so ingestion into it is always rejected.
const FallbackSubcategory = "General"

// Leaf is one capacity-constrained bucket of the catalog.
type Leaf struct {
	Category    string `json:"category"`
	MessType    string `json:"mess_type"`
	Subcategory string `json:"subcategory"`
}

func (l Leaf) String() string {
	return fmt.Sprintf("%s/%s/%s", l.Category, l.MessType, l.Subcategory)
}

type Subcategory struct {
	Name     string `mapstructure:"name" json:"name"`
	MaxItems int    `mapstructure:"max_items" json:"max_items"`
}

// Entry is the configuration shape of one (category, messType) pair.
type Entry struct {
	Category      string        `mapstructure:"category" json:"category"`
	MessType      string        `mapstructure:"mess_type" json:"mess_type"`
	Subcategories []Subcategory `mapstructure:"subcategories" json:"subcategories"`
}

type LeafLimit struct {
	Leaf
	MaxItems int `json:"max_items"`
}

type pairKey struct {
	category string
	messType string
}

// Table is immutable once built. Every accessor returns copies.
type Table struct {
	order   []pairKey
	entries map[pairKey][]Subcategory
}

var ErrEmptyCoordinate = errors.New("taxonomy coordinate has an empty component")

func New(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[pairKey][]Subcategory, len(entries))}
	for _, entry := range entries {
		key := pairKey{category: strings.TrimSpace(entry.Category), messType: strings.TrimSpace(entry.MessType)}
		if key.category == "" || key.messType == "" {
			return nil, ErrEmptyCoordinate
		}
		if _, ok := t.entries[key]; ok {
			return nil, fmt.Errorf("duplicate taxonomy pair %s/%s", key.category, key.messType)
		}

		seen := make(map[string]bool, len(entry.Subcategories))
		subs := make([]Subcategory, 0, len(entry.Subcategories))
		for _, sub := range entry.Subcategories {
			name := strings.TrimSpace(sub.Name)
			if name == "" {
				return nil, ErrEmptyCoordinate
			}
			if seen[name] {
				return nil, fmt.Errorf("duplicate subcategory %q in %s/%s", name, key.category, key.messType)
			}
			if sub.MaxItems < 0 {
				return nil, fmt.Errorf("negative max items for %s/%s/%s", key.category, key.messType, name)
			}
			seen[name] = true
			subs = append(subs, Subcategory{Name: name, MaxItems: sub.MaxItems})
		}
		t.order = append(t.order, key)
		t.entries[key] = subs
	}
	return t, nil
}

// SubcategoriesFor 依設定順序回傳，未設定的組合回傳 ["General"]
func (t *Table) SubcategoriesFor(category, messType string) []string {
	subs, ok := t.entries[pairKey{category: category, messType: messType}]
	if !ok || len(subs) == 0 {
		return []string{FallbackSubcategory}
	}
	names := make([]string, len(subs))
	for i, sub := range subs {
		names[i] = sub.Name
	}
	return names
}

// MaxItemsFor returns 0 for anything that is not configured.
func (t *Table) MaxItemsFor(category, messType, subcategory string) int {
	for _, sub := range t.entries[pairKey{category: category, messType: messType}] {
		if sub.Name == subcategory {
			return sub.MaxItems
		}
	}
	return 0
}

// Contains reports whether the leaf is configured, disabled leaves included.
func (t *Table) Contains(leaf Leaf) bool {
	for _, sub := range t.entries[pairKey{category: leaf.Category, messType: leaf.MessType}] {
		if sub.Name == leaf.Subcategory {
			return true
		}
	}
	return false
}

func (t *Table) Leaves() []LeafLimit {
	var leaves []LeafLimit
	for _, key := range t.order {
		for _, sub := range t.entries[key] {
			leaves = append(leaves, LeafLimit{
				Leaf:     Leaf{Category: key.category, MessType: key.messType, Subcategory: sub.Name},
				MaxItems: sub.MaxItems,
			})
		}
	}
	return leaves
}

// MessTypes 依第一次出現的順序
func (t *Table) MessTypes() []string {
	seen := make(map[string]bool)
	var types []string
	for _, key := range t.order {
		if !seen[key.messType] {
			seen[key.messType] = true
			types = append(types, key.messType)
		}
	}
	return types
}
