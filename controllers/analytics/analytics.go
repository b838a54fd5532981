package analytics

import (
	"time"

	"menupick-admin-worker/controllers/response"
	"menupick-admin-worker/services/report"
	"menupick-admin-worker/services/tally"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	tally *tally.Service
}

func NewController(service *tally.Service) *Controller {
	return &Controller{tally: service}
}

type tallyEntry struct {
	ItemID string `json:"item_id"`
	tally.Result
}

type rankingQuery struct {
	MessType    string `form:"mess_type"`
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
}

// Tally 依 catalog 順序輸出每個品項的 count/percentage
func (ctl *Controller) Tally(c *gin.Context) {
	state, err := ctl.tally.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	entries := make([]tallyEntry, 0, len(state.Catalog))
	for _, item := range state.Catalog {
		entries = append(entries, tallyEntry{ItemID: item.ItemID, Result: state.Results[item.ItemID]})
	}
	response.OK(c, entries)
}

func (ctl *Controller) Rankings(c *gin.Context) {
	var q rankingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	state, err := ctl.tally.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	views := []tally.View{}
	for _, view := range state.Views(q.MessType) {
		if q.Category != "" && view.Leaf.Category != q.Category {
			continue
		}
		if q.Subcategory != "" && view.Leaf.Subcategory != q.Subcategory {
			continue
		}
		views = append(views, view)
	}
	response.OK(c, views)
}

func (ctl *Controller) Participation(c *gin.Context) {
	state, err := ctl.tally.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	messType := c.Query("mess_type")
	if messType != "" {
		response.OK(c, []tally.Participation{state.Participation(messType)})
		return
	}
	all := []tally.Participation{}
	for _, messType := range messTypes(state) {
		all = append(all, state.Participation(messType))
	}
	response.OK(c, all)
}

func (ctl *Controller) Report(c *gin.Context) {
	state, err := ctl.tally.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report.Compose(state, c.Query("mess_type"), time.Now()))
}

// messTypes 學生資料裡出現過的 messType，依出現順序
func messTypes(state *tally.State) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, student := range state.Students {
		if !seen[student.MessType] {
			seen[student.MessType] = true
			out = append(out, student.MessType)
		}
	}
	return out
}
