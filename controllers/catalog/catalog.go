package catalog

import (
	"menupick-admin-worker/controllers/response"
	"menupick-admin-worker/models"
	catalogService "menupick-admin-worker/services/catalog"
	"menupick-admin-worker/services/filter"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *catalogService.Service
}

func NewController(service *catalogService.Service) *Controller {
	return &Controller{service: service}
}

type createdData struct {
	ItemID string `json:"item_id"`
}

type batchData struct {
	Committed []structs.LeafCount `json:"committed"`
}

type relocatedData struct {
	ItemID string        `json:"item_id"`
	Leaf   taxonomy.Leaf `json:"leaf"`
}

func leafFromPath(c *gin.Context) taxonomy.Leaf {
	return taxonomy.Leaf{Category: c.Param("category"), MessType: c.Param("mess"), Subcategory: c.Param("sub")}
}

func (ctl *Controller) List(c *gin.Context) {
	var criteria filter.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		response.BadRequest(c, err)
		return
	}
	items, err := ctl.service.List(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.MealItem{}
	}
	response.OK(c, items)
}

func (ctl *Controller) Create(c *gin.Context) {
	var param structs.MealItemParam
	if err := c.ShouldBindJSON(&param); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := response.Validate.Struct(param); err != nil {
		response.Error(c, err)
		return
	}
	id, err := ctl.service.Create(c.Request.Context(), param.ToModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, createdData{ItemID: id})
}

func (ctl *Controller) CreateBatch(c *gin.Context) {
	var param structs.BatchParam
	if err := c.ShouldBindJSON(&param); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := response.Validate.Struct(param); err != nil {
		response.Error(c, err)
		return
	}
	items := make([]models.MealItem, 0, len(param.Items))
	for _, item := range param.Items {
		items = append(items, item.ToModel())
	}
	counts, err := ctl.service.CreateBatch(c.Request.Context(), items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batchData{Committed: counts.LeafCounts()})
}

func (ctl *Controller) Update(c *gin.Context) {
	var patch structs.MealItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := ctl.service.Update(c.Request.Context(), leafFromPath(c), c.Param("id"), patch); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, createdData{ItemID: c.Param("id")})
}

func (ctl *Controller) Delete(c *gin.Context) {
	if err := ctl.service.Delete(c.Request.Context(), leafFromPath(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, createdData{ItemID: c.Param("id")})
}

func (ctl *Controller) Relocate(c *gin.Context) {
	var param structs.RelocateParam
	if err := c.ShouldBindJSON(&param); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := response.Validate.Struct(param); err != nil {
		response.Error(c, err)
		return
	}
	to := taxonomy.Leaf{Category: param.Category, MessType: param.MessType, Subcategory: param.Subcategory}
	id, err := ctl.service.Relocate(c.Request.Context(), leafFromPath(c), c.Param("id"), to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, relocatedData{ItemID: id, Leaf: to})
}
