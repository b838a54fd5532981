package taxonomy

import (
	"menupick-admin-worker/controllers/response"
	"menupick-admin-worker/services/capacity"
	"menupick-admin-worker/services/catalog"
	"menupick-admin-worker/services/taxonomy"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	table   *taxonomy.Table
	catalog *catalog.Service
}

func NewController(table *taxonomy.Table, service *catalog.Service) *Controller {
	return &Controller{table: table, catalog: service}
}

type capacityQuery struct {
	Category    string `form:"category" validate:"required"`
	MessType    string `form:"mess_type" validate:"required"`
	Subcategory string `form:"subcategory" validate:"required"`
}

type capacityData struct {
	Leaf taxonomy.Leaf `json:"leaf"`
	capacity.Result
}

type subcategoriesData struct {
	Category      string   `json:"category"`
	MessType      string   `json:"mess_type"`
	Subcategories []string `json:"subcategories"`
}

func (ctl *Controller) Leaves(c *gin.Context) {
	response.OK(c, ctl.table.Leaves())
}

// Subcategories 沒有對應的組合會回傳 General
func (ctl *Controller) Subcategories(c *gin.Context) {
	category, messType := c.Query("category"), c.Query("mess_type")
	response.OK(c, subcategoriesData{
		Category:      category,
		MessType:      messType,
		Subcategories: ctl.table.SubcategoriesFor(category, messType),
	})
}

func (ctl *Controller) Capacity(c *gin.Context) {
	var q capacityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := response.Validate.Struct(q); err != nil {
		response.Error(c, err)
		return
	}
	leaf := taxonomy.Leaf{Category: q.Category, MessType: q.MessType, Subcategory: q.Subcategory}
	result, err := ctl.catalog.Capacity(c.Request.Context(), leaf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, capacityData{Leaf: leaf, Result: result})
}
