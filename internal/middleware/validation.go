package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/studentperf/internal/app/models/dto"
)

// BindJSON decodes the request body into obj. On failure it writes a 400 response
// and returns false. Field rules are enforced by the services.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}
