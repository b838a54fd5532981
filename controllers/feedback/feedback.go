package feedback

import (
	"menupick-admin-worker/controllers/response"
	"menupick-admin-worker/models"
	"menupick-admin-worker/services/feedback"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service *feedback.Service
}

func NewController(service *feedback.Service) *Controller {
	return &Controller{service: service}
}

func (ctl *Controller) List(c *gin.Context) {
	var q feedback.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	if err := response.Validate.Struct(q); err != nil {
		response.Error(c, err)
		return
	}
	review, err := ctl.service.Review(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	if review.Entries == nil {
		review.Entries = []models.Feedback{}
	}
	response.OK(c, review)
}
