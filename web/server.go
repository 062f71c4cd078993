// Package web runs the keepalive HTTP server some hosting platforms
// require a bot process to expose.
package web

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Run starts the server in the background. A port of 0 disables it.
func Run(port int) {
	if port <= 0 {
		return
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Ticket bot is running!")
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	go func() {
		log.Printf("[web] Listening on :%d", port)
		if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("[web] Server stopped: %v", err)
		}
	}()
}
