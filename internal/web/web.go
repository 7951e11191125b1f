package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/*
var staticFS embed.FS

// Register mounts the chat page at / and its assets under /static/.
func Register(router *gin.Engine) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("web fs error: %v", err)
		return
	}
	index, err := fs.ReadFile(sub, "index.html")
	if err != nil {
		log.Printf("web index error: %v", err)
		return
	}
	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})
	router.StaticFS("/static", http.FS(sub))
}
