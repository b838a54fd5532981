package router

import (
	"menupick-admin-worker/controllers/analytics"
	"menupick-admin-worker/controllers/catalog"
	"menupick-admin-worker/controllers/check"
	"menupick-admin-worker/controllers/feedback"
	"menupick-admin-worker/controllers/readProbe"
	taxonomyController "menupick-admin-worker/controllers/taxonomy"
	catalogService "menupick-admin-worker/services/catalog"
	feedbackService "menupick-admin-worker/services/feedback"
	"menupick-admin-worker/services/tally"
	"menupick-admin-worker/services/taxonomy"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Dependencies struct {
	Table          *taxonomy.Table
	Catalog        *catalogService.Service
	Tally          *tally.Service
	Feedback       *feedbackService.Service
	Registry       *prometheus.Registry
	ConnectionName string
}

func Router(deps Dependencies) *gin.Engine {
	route := gin.Default()

	route.GET("/read-probe", readProbe.Probe)
	route.GET("/check-live", check.CheckAlive(deps.ConnectionName))
	route.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	taxonomyCtl := taxonomyController.NewController(deps.Table, deps.Catalog)
	route.GET("/taxonomy", taxonomyCtl.Leaves)
	route.GET("/taxonomy/subcategories", taxonomyCtl.Subcategories)
	route.GET("/taxonomy/capacity", taxonomyCtl.Capacity)

	catalogCtl := catalog.NewController(deps.Catalog)
	items := route.Group("/items")
	{
		items.GET("", catalogCtl.List)
		items.POST("", catalogCtl.Create)
		items.POST("/batch", catalogCtl.CreateBatch)
		items.PATCH("/:mess/:category/:sub/:id", catalogCtl.Update)
		items.DELETE("/:mess/:category/:sub/:id", catalogCtl.Delete)
		items.PUT("/:mess/:category/:sub/:id/relocate", catalogCtl.Relocate)
	}

	analyticsCtl := analytics.NewController(deps.Tally)
	stats := route.Group("/analytics")
	{
		stats.GET("/tally", analyticsCtl.Tally)
		stats.GET("/rankings", analyticsCtl.Rankings)
		stats.GET("/participation", analyticsCtl.Participation)
		stats.GET("/report", analyticsCtl.Report)
	}

	route.GET("/feedback", feedback.NewController(deps.Feedback).List)

	return route
}
