package taxonomy

import "menupick-admin-worker/enums"

func sub(name string, limit int) Subcategory {
	return Subcategory{Name: name, MaxItems: limit}
}

// DefaultEntries is used when config.yml carries no taxonomy block.
func DefaultEntries() []Entry {
	return []Entry{
		{Category: enums.Breakfast, MessType: enums.MessVeg, Subcategories: []Subcategory{sub("Tiffin", 15), sub("Chutney", 10), sub("Beverages", 6), sub("Fruits", 5)}},
		{Category: enums.Breakfast, MessType: enums.MessNonVeg, Subcategories: []Subcategory{sub("Tiffin", 15), sub("Egg", 6), sub("Chutney", 10), sub("Beverages", 6)}},
		{Category: enums.Breakfast, MessType: enums.MessSpecial, Subcategories: []Subcategory{sub("Tiffin", 8), sub("Beverages", 4)}},
		{Category: enums.Lunch, MessType: enums.MessVeg, Subcategories: []Subcategory{sub("Rice", 8), sub("Curry", 12), sub("Dal", 6), sub("Sabzi", 12), sub("Roti", 5), sub("Dessert", 6)}},
		{Category: enums.Lunch, MessType: enums.MessNonVeg, Subcategories: []Subcategory{sub("Rice", 8), sub("Curry", 12), sub("Chicken", 8), sub("Fish", 6), sub("Roti", 5), sub("Dessert", 6)}},
		{Category: enums.Lunch, MessType: enums.MessSpecial, Subcategories: []Subcategory{sub("Rice", 4), sub("Curry", 6), sub("Salad", 6)}},
		{Category: enums.Snacks, MessType: enums.MessVeg, Subcategories: []Subcategory{sub("Snacks", 12), sub("Beverages", 6)}},
		{Category: enums.Snacks, MessType: enums.MessNonVeg, Subcategories: []Subcategory{sub("Snacks", 12), sub("Beverages", 6)}},
		{Category: enums.Snacks, MessType: enums.MessSpecial, Subcategories: []Subcategory{sub("Snacks", 0), sub("Beverages", 4)}},
		{Category: enums.Dinner, MessType: enums.MessVeg, Subcategories: []Subcategory{sub("Rice", 8), sub("Curry", 12), sub("Roti", 5), sub("Dessert", 6)}},
		{Category: enums.Dinner, MessType: enums.MessNonVeg, Subcategories: []Subcategory{sub("Rice", 8), sub("Curry", 12), sub("Chicken", 8), sub("Roti", 5), sub("Dessert", 6)}},
		{Category: enums.Dinner, MessType: enums.MessSpecial, Subcategories: []Subcategory{sub("Rice", 4), sub("Curry", 6), sub("Soup", 4)}},
	}
}

func Default() *Table {
	t, err := New(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return t
}
