package http

import "github.com/gin-gonic/gin"

// Registrar is implemented by modules that expose HTTP routes.
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}
