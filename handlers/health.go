package handlers

import (
	"net/http"

	"bookery/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health with the latest dependency snapshot.
func HealthCheck(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
