package handlers

import (
	"io"
	"net/http"
	"strconv"

	"resumehub/internal/models"
	"resumehub/internal/services"
	"resumehub/internal/services/dto"
	"resumehub/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ResumeHandler struct {
	*BaseHandler
	resumeService services.ResumeService
}

func NewResumeHandler(base *BaseHandler, resumeService services.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		BaseHandler:   base,
		resumeService: resumeService,
	}
}

// RegisterRoutes регистрирует маршруты резюме (группа уже защищена AuthMiddleware)
func (h *ResumeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	resumes := rg.Group("/resumes")
	{
		resumes.POST("", h.Upload)
		resumes.GET("", h.List)
		resumes.GET("/:id", h.Get)
		resumes.PUT("/:id", h.Update)
		resumes.DELETE("/:id", h.Delete)
		resumes.GET("/:id/download", h.Download)

		resumes.POST("/:id/analyze", h.Analyze)
		resumes.POST("/:id/optimize", h.Optimize)
		resumes.GET("/:id/optimizations", h.ListOptimizations)
		resumes.POST("/:id/match", h.JobMatch)
	}

	rg.PUT("/optimizations/:id/status", h.SetOptimizationStatus)
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(20 << 20); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	var req dto.UploadResumeRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid form data: "+err.Error()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("no file provided"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to open file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	response, err := h.resumeService.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, data, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, perPage := ParsePagination(c)

	response, err := h.resumeService.List(userID, page, perPage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.resumeService.Get(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ResumeHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.resumeService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.resumeService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Resume deleted",
	})
}

func (h *ResumeHandler) Download(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	url, err := h.resumeService.GetDownloadURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": url,
	})
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	withAI, _ := strconv.ParseBool(c.DefaultQuery("with_ai", "false"))

	response, err := h.resumeService.Analyze(c.Request.Context(), userID, c.Param("id"), withAI)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ResumeHandler) Optimize(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.OptimizeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.resumeService.Optimize(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *ResumeHandler) ListOptimizations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	response, err := h.resumeService.ListOptimizations(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"optimizations": response,
	})
}

type setOptimizationStatusRequest struct {
	Status models.OptimizationStatus `json:"status" validate:"required,oneof=pending applied rejected"`
}

func (h *ResumeHandler) SetOptimizationStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req setOptimizationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.resumeService.SetOptimizationStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Optimization status updated",
	})
}

func (h *ResumeHandler) JobMatch(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.JobMatchRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.resumeService.JobMatch(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
