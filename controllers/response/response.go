package response

import (
	"errors"
	"net/http"

	"menupick-admin-worker/services/catalog"
	"menupick-admin-worker/services/ingest"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CapacityData struct {
	Leaf       taxonomy.Leaf `json:"leaf"`
	MaxAllowed int           `json:"max_allowed"`
}

type PartialData struct {
	Committed  []structs.LeafCount `json:"committed"`
	FailedLeaf taxonomy.Leaf       `json:"failed_leaf"`
}

var Validate = validator.New()

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Message: "ok", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: "created", Data: data})
}

func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Message: err.Error()})
}

// Error 依錯誤種類對應 http status
func Error(c *gin.Context, err error) {
	var exceeded *ingest.CapacityExceededError
	var partial *ingest.PartialIngestionFailure
	var unavailable *store.UnavailableError
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &exceeded):
		c.JSON(http.StatusConflict, Response{Message: err.Error(), Data: CapacityData{Leaf: exceeded.Leaf, MaxAllowed: exceeded.MaxAllowed}})
	case errors.As(err, &partial):
		c.JSON(http.StatusMultiStatus, Response{Message: err.Error(), Data: PartialData{Committed: partial.CommittedLeaves.LeafCounts(), FailedLeaf: partial.FailedLeaf}})
	case errors.As(err, &unavailable):
		c.JSON(http.StatusServiceUnavailable, Response{Message: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Message: err.Error()})
	case errors.As(err, &validationErrors),
		errors.Is(err, store.ErrInvalidPath),
		errors.Is(err, ingest.ErrEmptyName),
		errors.Is(err, catalog.ErrEmptyPatch),
		errors.Is(err, catalog.ErrMixedLeaves),
		errors.Is(err, catalog.ErrUnknownLeaf),
		errors.Is(err, catalog.ErrNegativeNutrition):
		BadRequest(c, err)
	default:
		c.JSON(http.StatusInternalServerError, Response{Message: err.Error()})
	}
}
