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

type AppraisalHandler struct {
	appraisalService service.AppraisalService
}

func NewAppraisalHandler(appraisalService service.AppraisalService) *AppraisalHandler {
	return &AppraisalHandler{appraisalService: appraisalService}
}

func (h *AppraisalHandler) RegisterRoutes(router *gin.RouterGroup) {
	appraisals := router.Group("/api/appraisals")
	{
		appraisals.GET("/self", middleware.RequireAuth(), h.ListSelfAppraisals)
		appraisals.POST("/self", middleware.RequireAuth(model.RoleFaculty), h.SubmitSelfAppraisal)
		appraisals.GET("/hod", middleware.RequireAuth(), h.ListHodAppraisals)
		appraisals.POST("/hod", middleware.RequireAuth(model.RoleHOD), h.SubmitHodAppraisal)
		appraisals.GET("/principal", middleware.RequireAuth(), h.ListPrincipalRemarks)
		appraisals.POST("/principal", middleware.RequireAuth(model.RolePrincipal), h.SubmitPrincipalRemarks)
		appraisals.GET("/academic-years", middleware.RequireAuth(), h.AcademicYears)
	}
}

// listFilter pulls the optional query filters shared by the list endpoints.
func listFilter(c *gin.Context) service.ListFilter {
	filter := service.ListFilter{AcademicYear: c.Query("academicYear")}
	if raw := c.Query("facultyId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.FacultyID = &id
		}
	}
	if raw := c.Query("departmentId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.DepartmentID = &id
		}
	}
	return filter
}

// SubmitSelfAppraisal creates or updates the actor's self-appraisal
// @Summary      Submit self-appraisal
// @Description  Creates the faculty member's self-appraisal for an academic year, or updates it while still in draft
// @Tags         appraisals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SelfAppraisalPayload  true  "Self-Appraisal Payload"
// @Success      200      {object}  response.Response{data=model.SelfAppraisal}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/appraisals/self [post]
func (h *AppraisalHandler) SubmitSelfAppraisal(c *gin.Context) {
	var payload service.SelfAppraisalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appraisal, err := h.appraisalService.SubmitSelfAppraisal(c.Request.Context(), middleware.GetActor(c), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appraisal))
}

// ListSelfAppraisals returns self-appraisals visible to the actor
// @Summary      List self-appraisals
// @Tags         appraisals
// @Produce      json
// @Security     BearerAuth
// @Param        academicYear  query     string  false  "Academic year filter"
// @Param        facultyId     query     string  false  "Faculty filter"
// @Success      200           {object}  response.Response{data=[]model.SelfAppraisal}
// @Router       /api/appraisals/self [get]
func (h *AppraisalHandler) ListSelfAppraisals(c *gin.Context) {
	appraisals, err := h.appraisalService.ListSelfAppraisals(c.Request.Context(), middleware.GetActor(c), listFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appraisals))
}

// SubmitHodAppraisal creates or updates an HOD review
// @Summary      Submit HOD appraisal
// @Description  Reviews a submitted self-appraisal, computing the weighted performance score; submitting advances the self-appraisal
// @Tags         appraisals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.HodAppraisalPayload  true  "HOD Appraisal Payload"
// @Success      200      {object}  response.Response{data=model.HodAppraisal}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/appraisals/hod [post]
func (h *AppraisalHandler) SubmitHodAppraisal(c *gin.Context) {
	var payload service.HodAppraisalPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	appraisal, err := h.appraisalService.SubmitHodAppraisal(c.Request.Context(), middleware.GetActor(c), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appraisal))
}

// ListHodAppraisals returns HOD appraisals visible to the actor
// @Summary      List HOD appraisals
// @Tags         appraisals
// @Produce      json
// @Security     BearerAuth
// @Param        academicYear  query     string  false  "Academic year filter"
// @Success      200           {object}  response.Response{data=[]model.HodAppraisal}
// @Router       /api/appraisals/hod [get]
func (h *AppraisalHandler) ListHodAppraisals(c *gin.Context) {
	appraisals, err := h.appraisalService.ListHodAppraisals(c.Request.Context(), middleware.GetActor(c), listFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, appraisals))
}

// SubmitPrincipalRemarks creates or updates the Principal's closing remarks
// @Summary      Submit Principal remarks
// @Description  Records the Principal's remarks; completing cascades both referenced appraisal records to completed
// @Tags         appraisals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PrincipalRemarksPayload  true  "Principal Remarks Payload"
// @Success      200      {object}  response.Response{data=model.PrincipalRemarks}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/appraisals/principal [post]
func (h *AppraisalHandler) SubmitPrincipalRemarks(c *gin.Context) {
	var payload service.PrincipalRemarksPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	remarks, err := h.appraisalService.SubmitPrincipalRemarks(c.Request.Context(), middleware.GetActor(c), payload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, remarks))
}

// ListPrincipalRemarks returns Principal remarks visible to the actor
// @Summary      List Principal remarks
// @Tags         appraisals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PrincipalRemarks}
// @Router       /api/appraisals/principal [get]
func (h *AppraisalHandler) ListPrincipalRemarks(c *gin.Context) {
	remarks, err := h.appraisalService.ListPrincipalRemarks(c.Request.Context(), middleware.GetActor(c), listFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, remarks))
}

// AcademicYears returns the distinct appraisal cycles on record
// @Summary      List academic years
// @Tags         appraisals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/appraisals/academic-years [get]
func (h *AppraisalHandler) AcademicYears(c *gin.Context) {
	years, err := h.appraisalService.AcademicYears(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, years))
}
