package handlers

import (
	"net/http"
	"strconv"

	"resumehub/internal/services"
	"resumehub/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	*BaseHandler
	teamService services.TeamService
}

func NewTeamHandler(base *BaseHandler, teamService services.TeamService) *TeamHandler {
	return &TeamHandler{
		BaseHandler: base,
		teamService: teamService,
	}
}

// RegisterRoutes регистрирует маршруты команд (группа уже защищена AuthMiddleware)
func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	teams := rg.Group("/teams")
	{
		teams.POST("", h.Create)
		teams.GET("", h.ListMine)
		teams.GET("/:id", h.Get)
		teams.PUT("/:id", h.Update)
		teams.DELETE("/:id", h.Delete)
		teams.GET("/:id/metrics", h.Metrics)
		teams.GET("/:id/export", h.Export)

		teams.POST("/:id/members", h.AddMember)
		teams.GET("/:id/members", h.ListMembers)
		teams.PUT("/:id/members/:userId", h.UpdateMemberRole)
		teams.DELETE("/:id/members/:userId", h.RemoveMember)

		teams.POST("/:id/projects", h.CreateProject)
		teams.GET("/:id/projects", h.ListProjects)
		teams.PUT("/:id/projects/:projectId", h.UpdateProject)
		teams.POST("/:id/projects/:projectId/archive", h.ArchiveProject)
		teams.DELETE("/:id/projects/:projectId", h.DeleteProject)
	}
}

func (h *TeamHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.teamService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *TeamHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListMine(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
	})
}

func (h *TeamHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.teamService.Get(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.teamService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team deleted",
	})
}

func (h *TeamHandler) Metrics(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.teamService.Metrics(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) Export(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.teamService.Export(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.teamService.AddMember(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": members,
	})
}

func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMemberRoleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.teamService.UpdateMemberRole(userID, c.Param("id"), c.Param("userId"), req.Role); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member role updated",
	})
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(userID, c.Param("id"), c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed",
	})
}

func (h *TeamHandler) CreateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.teamService.CreateProject(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *TeamHandler) ListProjects(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	includeArchived, _ := strconv.ParseBool(c.DefaultQuery("include_archived", "false"))

	projects, err := h.teamService.ListProjects(userID, c.Param("id"), includeArchived)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
	})
}

func (h *TeamHandler) UpdateProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.teamService.UpdateProject(userID, c.Param("id"), c.Param("projectId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *TeamHandler) ArchiveProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.ArchiveProject(userID, c.Param("id"), c.Param("projectId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project archived",
	})
}

func (h *TeamHandler) DeleteProject(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.teamService.DeleteProject(userID, c.Param("id"), c.Param("projectId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted",
	})
}
