package rest

import "github.com/gin-gonic/gin"

// Register registers a handler group on the gin engine
type Register interface {
	Register(*gin.Engine)
}
