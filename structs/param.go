package structs

import (
	"strings"
	"time"

	"menupick-admin-worker/models"
)

type Nutrition struct {
	Calories int `json:"calories" form:"calories" validate:"gte=0"`
	Protein  int `json:"protein" form:"protein" validate:"gte=0"`
	Carbs    int `json:"carbs" form:"carbs" validate:"gte=0"`
	Fat      int `json:"fat" form:"fat" validate:"gte=0"`
}

// MealItemParam 建立品項用，名稱空白的品項會在批次裡被略過，所以 name 不做 required
type MealItemParam struct {
	MessType    string    `json:"mess_type" form:"mess_type" validate:"required"`
	Category    string    `json:"category" form:"category" validate:"required"`
	Subcategory string    `json:"subcategory" form:"subcategory" validate:"required"`
	Name        string    `json:"name" form:"name"`
	Description string    `json:"description" form:"description"`
	Image       string    `json:"image" form:"image"`
	Nutrition   Nutrition `json:"nutrition" form:"nutrition"`
	Tags        []string  `json:"tags" form:"tags"`
}

func (p MealItemParam) ToModel() models.MealItem {
	return models.MealItem{
		MessType:    strings.TrimSpace(p.MessType),
		Category:    strings.TrimSpace(p.Category),
		Subcategory: strings.TrimSpace(p.Subcategory),
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
		Image:       p.Image,
		Calories:    p.Nutrition.Calories,
		Protein:     p.Nutrition.Protein,
		Carbs:       p.Nutrition.Carbs,
		Fat:         p.Nutrition.Fat,
		Tags:        models.TagSet(p.Tags).Normalize(),
	}
}

type BatchParam struct {
	Items []MealItemParam `json:"items" validate:"dive"`
}

// MealItemPatch 只改內容，不改 taxonomy 座標
type MealItemPatch struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

func (p MealItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Image == nil && p.Nutrition == nil && p.Tags == nil
}

// Columns maps the patch onto column names, which are also the document field names.
func (p MealItemPatch) Columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if p.Name != nil {
		cols["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		cols["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Image != nil {
		cols["image"] = *p.Image
	}
	if p.Nutrition != nil {
		cols["calories"] = p.Nutrition.Calories
		cols["protein"] = p.Nutrition.Protein
		cols["carbs"] = p.Nutrition.Carbs
		cols["fat"] = p.Nutrition.Fat
	}
	if p.Tags != nil {
		cols["tags"] = models.TagSet(*p.Tags).Normalize()
	}
	return cols
}

type RelocateParam struct {
	MessType    string `json:"mess_type" form:"mess_type" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required"`
	Subcategory string `json:"subcategory" form:"subcategory" validate:"required"`
}

type IngestQueueParam struct {
	TaskID    uint            `json:"task_id" form:"task_id"`
	Operator  string          `json:"operator" form:"operator"`
	Items     []MealItemParam `json:"items" form:"items" validate:"dive"`
	Result    string          `json:"result" form:"result"`
	QueueType string          `json:"queue_type" form:"queue_type"`
}

type ReportQueueParam struct {
	TaskID    uint   `json:"task_id" form:"task_id"`
	MessType  string `json:"mess_type" form:"mess_type"`
	Result    string `json:"result" form:"result"`
	QueueType string `json:"queue_type" form:"queue_type"`
}

type MismatchQueueResponse struct {
	TaskId uint   `json:"task_id"`
	Queue  string `json:"queue"`
}
