package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamjoin/internal/handlers/firewall"
)

func responseErrorAndLogMaybeHack(c *gin.Context, httpCode int, errMsg string) {
	logMayHack(c, errMsg)
	c.String(httpCode, http.StatusText(httpCode))
}

func logMayHack(c *gin.Context, errMsg string) {
	firewall.MarkSuspicious(c, errMsg)
}
