// Package statisfiles serves the assets of server rendered pages.
package statisfiles

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed res/*
var staticFiles embed.FS

const (
	cacheControl = "public, max-age=3600"
)

func RegisterHandlers(rg *gin.RouterGroup) {
	res, _ := fs.Sub(staticFiles, "res")

	static := rg.Group("/static", func(c *gin.Context) {
		c.Header("Cache-Control", cacheControl)
	})
	static.StaticFS("/", http.FS(res))
}
