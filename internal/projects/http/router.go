package http

import "github.com/gin-gonic/gin"

// Register attaches the project store routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/save", h.save)
	rg.GET("/get", h.get)
	rg.GET("/list", h.list)
}
