package statusapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func successResponse(c *gin.Context, extras any) {
	c.JSON(http.StatusOK, response{
		Success: true,
		Code:    http.StatusOK,
		Extras:  extras,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, response{
		Success: false,
		Code:    code,
		Extras:  map[string]any{"message": message},
	})
}
