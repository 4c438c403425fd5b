package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appraisal/internal/middleware"
	"appraisal/internal/model"
	"appraisal/internal/service"
	"appraisal/pkg/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/api/analytics", middleware.RequireAuth(model.RolePrincipal, model.RoleHOD))
	{
		analytics.GET("", h.Summary)
		analytics.GET("/appraisals/pending", h.PendingCount)
		analytics.GET("/appraisals/completed", h.CompletedCount)
	}
}

// Summary aggregates scored appraisals for dashboards
// @Summary      Appraisal analytics
// @Description  Category counts, average weighted score and per-department breakdown; HODs see only their department
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        academicYear  query     string  false  "Academic year filter"
// @Param        departmentId  query     string  false  "Department filter (Principal only)"
// @Success      200           {object}  response.Response{data=service.AnalyticsSummary}
// @Failure      403           {object}  response.Response
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	filter := service.AnalyticsFilter{AcademicYear: c.Query("academicYear")}
	if raw := c.Query("departmentId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.DepartmentID = &id
		}
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), middleware.GetActor(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// PendingCount returns appraisals waiting on the actor
// @Summary      Pending appraisal count
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/analytics/appraisals/pending [get]
func (h *AnalyticsHandler) PendingCount(c *gin.Context) {
	count, err := h.analyticsService.PendingCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"count": count}))
}

// CompletedCount returns appraisals the actor's stage has finished
// @Summary      Completed appraisal count
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/analytics/appraisals/completed [get]
func (h *AnalyticsHandler) CompletedCount(c *gin.Context) {
	count, err := h.analyticsService.CompletedCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"count": count}))
}
