package router

import "github.com/gin-gonic/gin"

// Module is one routable feature of the service. Implementations attach
// their endpoints, with any per-route rate limits, to the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
