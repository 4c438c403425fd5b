package handler

import (
	"github.com/gin-gonic/gin"

	"appraisal/pkg/apperror"
	"appraisal/pkg/response"
)

// fail writes the error with the status its kind maps to. Store failures are
// masked; the cause has already been logged by the service layer.
func fail(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.Error(status, apperror.Public(err)))
}
