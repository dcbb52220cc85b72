package taxonomy

import (
	"errors"
	"net/http"

	"projman/bizerror"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathSkillTypes      = "/v1/skill-types"
	PathProjectTypes    = "/v1/project-types"
	PathProjectStatuses = "/v1/project-statuses"
)

func RegisterTaxonomiesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	registerTaxonomyRoutes(r, PathSkillTypes, SkillTypes, middleWares...)
	registerTaxonomyRoutes(r, PathProjectTypes, ProjectTypes, middleWares...)
	registerTaxonomyRoutes(r, PathProjectStatuses, ProjectStatuses, middleWares...)
}

func registerTaxonomyRoutes[T any](r *gin.Engine, path string, svc *Service[T], middleWares ...gin.HandlerFunc) {
	g := r.Group(path, middleWares...)
	g.GET("", func(c *gin.Context) { handleQuery(c, svc, true) })
	g.GET("/inactive", func(c *gin.Context) { handleQuery(c, svc, false) })
	g.GET("/:id", func(c *gin.Context) { handleFind(c, svc) })
	g.POST("", func(c *gin.Context) { handleCreate(c, svc) })
	g.PATCH("/:id", func(c *gin.Context) { handleUpdate(c, svc) })
	g.PUT("/enable/:id", func(c *gin.Context) { handleSetActive(c, svc, true) })
	g.PUT("/disable/:id", func(c *gin.Context) { handleSetActive(c, svc, false) })
	g.DELETE("/:id", func(c *gin.Context) { handleDelete(c, svc) })
}

func parseIdParam(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}

func handleQuery[T any](c *gin.Context, svc *Service[T], active bool) {
	records, err := svc.Query(active)
	if err != nil {
		panic(err)
	}
	// an empty collection responds 204, not an empty json array
	if len(records) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, records)
}

func handleFind[T any](c *gin.Context, svc *Service[T]) {
	record, err := svc.Find(parseIdParam(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreate[T any](c *gin.Context, svc *Service[T]) {
	creation := TaxonomyCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := svc.Create(creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleUpdate[T any](c *gin.Context, svc *Service[T]) {
	id := parseIdParam(c)
	updating := TaxonomyUpdating{}
	err := c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := svc.Update(id, updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleSetActive[T any](c *gin.Context, svc *Service[T], active bool) {
	record, err := svc.SetActive(parseIdParam(c), active)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDelete[T any](c *gin.Context, svc *Service[T]) {
	if err := svc.Delete(parseIdParam(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
