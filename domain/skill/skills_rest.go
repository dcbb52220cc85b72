package skill

import (
	"errors"
	"net/http"

	"projman/bizerror"
	"projman/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathSkills = "/v1/skills"
)

func RegisterSkillsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathSkills, middleWares...)
	g.GET("", handleQueryActiveSkills)
	g.GET("/inactive", handleQueryInactiveSkills)
	g.GET("/type/:typeId", handleQuerySkillsByType)
	g.GET("/:id", handleFindSkill)
	g.POST("", handleCreateSkill)
	g.PATCH("/:id", handleUpdateSkill)
	g.PUT("/enable/:id", handleEnableSkill)
	g.PUT("/disable/:id", handleDisableSkill)
	g.DELETE("/:id", handleDeleteSkill)
}

func parseIdParam(c *gin.Context, name string) types.ID {
	parsedId, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid " + name + " '" + c.Param(name) + "'")})
	}
	return parsedId
}

func handleQueryActiveSkills(c *gin.Context) {
	records, err := QuerySkillsFunc(SkillQuery{Active: true})
	if err != nil {
		panic(err)
	}
	respondSkillList(c, records)
}

func handleQueryInactiveSkills(c *gin.Context) {
	records, err := QuerySkillsFunc(SkillQuery{Active: false})
	if err != nil {
		panic(err)
	}
	respondSkillList(c, records)
}

func handleQuerySkillsByType(c *gin.Context) {
	typeId := parseIdParam(c, "typeId")
	records, err := QuerySkillsFunc(SkillQuery{Active: true, TypeID: &typeId})
	if err != nil {
		panic(err)
	}
	respondSkillList(c, records)
}

// an empty collection responds 204, not an empty json array
func respondSkillList(c *gin.Context, records []domain.Skill) {
	if len(records) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, records)
}

func handleFindSkill(c *gin.Context) {
	record, err := FindSkillFunc(parseIdParam(c, "id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateSkill(c *gin.Context) {
	creation := SkillCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateSkillFunc(creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleUpdateSkill(c *gin.Context) {
	id := parseIdParam(c, "id")
	updating := SkillUpdating{}
	err := c.ShouldBindBodyWith(&updating, binding.JSON)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateSkillFunc(id, updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleEnableSkill(c *gin.Context) {
	record, err := UpdateSkillActiveFunc(parseIdParam(c, "id"), true)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDisableSkill(c *gin.Context) {
	record, err := UpdateSkillActiveFunc(parseIdParam(c, "id"), false)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteSkill(c *gin.Context) {
	if err := DeleteSkillFunc(parseIdParam(c, "id")); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
