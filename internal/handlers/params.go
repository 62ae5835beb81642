// internal/handlers/params.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/perfume-storefront/internal/utils"
)

func queryInt64(c *gin.Context, name string, fallback int64) int64 {
	raw, ok := c.GetQuery(name)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// paramID parses a positive numeric path parameter, answering 400 itself on failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.BadRequestResponse(c, "", gin.H{name: c.Param(name)})
		return 0, false
	}
	return id, true
}
