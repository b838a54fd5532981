package models

import (
	"strings"
	"time"
)

type MealItem struct {
	ItemID      string     `gorm:"column:item_id;primary_key" json:"item_id" bson:"_id"`
	MessType    string     `gorm:"column:mess_type;index:idx_meal_items_leaf" json:"mess_type" bson:"mess_type"`
	Category    string     `gorm:"column:category;index:idx_meal_items_leaf" json:"category" bson:"category"`
	Subcategory string     `gorm:"column:subcategory;index:idx_meal_items_leaf" json:"subcategory" bson:"subcategory"`
	Name        string     `gorm:"column:name" json:"name" bson:"name"`
	Description string     `gorm:"column:description;type:text" json:"description" bson:"description"`
	Image       string     `gorm:"column:image;type:text" json:"image" bson:"image"`
	Calories    int        `gorm:"column:calories" json:"calories" bson:"calories"`
	Protein     int        `gorm:"column:protein" json:"protein" bson:"protein"`
	Carbs       int        `gorm:"column:carbs" json:"carbs" bson:"carbs"`
	Fat         int        `gorm:"column:fat" json:"fat" bson:"fat"`
	Tags        TagSet     `gorm:"column:tags;type:text" json:"tags" bson:"tags"`
	CreatedAt   *time.Time `gorm:"column:created_at" json:"created_at" bson:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at" bson:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (MealItem) TableName() string {
	return "meal_items"
}

// 名稱去掉空白後為空的品項不進入批次
func (m MealItem) HasName() bool {
	return strings.TrimSpace(m.Name) != ""
}

// 同一個 taxonomy 座標
func (m MealItem) SameCoordinate(messType, category, subcategory string) bool {
	return m.MessType == messType && m.Category == category && m.Subcategory == subcategory
}

func (m MealItem) HasNegativeNutrition() bool {
	return m.Calories < 0 || m.Protein < 0 || m.Carbs < 0 || m.Fat < 0
}
