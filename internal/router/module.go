package router

import "github.com/gin-gonic/gin"

// Module is a feature slice that knows how to mount its routes on the
// versioned API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
