package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
