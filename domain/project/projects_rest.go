package project

import (
	"errors"
	"net/http"
	"strconv"

	"projman/bizerror"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathProjects = "/v1/projects"

func RegisterProjectsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathProjects, middleWares...)

	g.GET("", handleQueryActiveProjects)
	g.GET("/inactive", handleQueryInactiveProjects)
	g.GET("/pageable", handleQueryProjectsPage)
	g.GET("/status/:statusId", handleQueryProjectsByStatus)
	g.GET("/:id", handleFindProject)
	g.POST("", handleCreateProject)
	g.PATCH("/:id", handleUpdateProject)
	g.PUT("/enable/:id", handleEnableProject)
	g.PUT("/disable/:id", handleDisableProject)
	g.DELETE("/:id", handleDeleteProject)

	g.POST("/:id/sync-skills", handleSyncProjectSkills)
	g.GET("/:id/team-members", handleProjectTeamMembers)
	g.GET("/:id/team-details", handleProjectTeamDetails)
}

func handleQueryActiveProjects(c *gin.Context) {
	details, err := QueryProjectDetailsFunc(c.Request.Context(), true, nil, c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	respondProjectList(c, details)
}

func handleQueryInactiveProjects(c *gin.Context) {
	details, err := QueryProjectDetailsFunc(c.Request.Context(), false, nil, c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	respondProjectList(c, details)
}

func handleQueryProjectsPage(c *gin.Context) {
	page := parseIntQuery(c, "page", 0)
	size := parseIntQuery(c, "size", 10)
	details, err := QueryProjectDetailsPageFunc(c.Request.Context(), page, size, c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	respondProjectList(c, details)
}

func handleQueryProjectsByStatus(c *gin.Context) {
	statusID := parseIdParam(c, "statusId")
	details, err := QueryProjectDetailsFunc(c.Request.Context(), true, &statusID, c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	respondProjectList(c, details)
}

func handleFindProject(c *gin.Context) {
	detail, err := FindProjectDetailFunc(c.Request.Context(), parseIdParam(c, "id"), c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func handleCreateProject(c *gin.Context) {
	creation := ProjectCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateProjectFunc(creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleUpdateProject(c *gin.Context) {
	updating := ProjectUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := UpdateProjectFunc(parseIdParam(c, "id"), updating)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleEnableProject(c *gin.Context) {
	record, err := UpdateProjectActiveFunc(parseIdParam(c, "id"), true)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDisableProject(c *gin.Context) {
	record, err := UpdateProjectActiveFunc(parseIdParam(c, "id"), false)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteProject(c *gin.Context) {
	if err := DeleteProjectFunc(parseIdParam(c, "id")); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func handleSyncProjectSkills(c *gin.Context) {
	replaceExisting := false
	if raw := c.Query("replaceExisting"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: errors.New("invalid replaceExisting '" + raw + "'")})
		}
		replaceExisting = parsed
	}
	result, err := SyncProjectSkillsFunc(c.Request.Context(), parseIdParam(c, "id"), c.GetHeader("Authorization"), replaceExisting)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func handleProjectTeamMembers(c *gin.Context) {
	report, err := ListProjectTeamMembersFunc(c.Request.Context(), parseIdParam(c, "id"), c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, report)
}

func handleProjectTeamDetails(c *gin.Context) {
	report, err := ProjectTeamDetailsFunc(c.Request.Context(), parseIdParam(c, "id"), c.GetHeader("Authorization"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, report)
}

// an empty collection responds 204, not an empty json array
func respondProjectList(c *gin.Context, details []Detail) {
	if len(details) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, details)
}

func parseIdParam(c *gin.Context, name string) types.ID {
	parsedId, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid " + name + " '" + c.Param(name) + "'")})
	}
	return parsedId
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid " + name + " '" + raw + "'")})
	}
	return parsed
}
