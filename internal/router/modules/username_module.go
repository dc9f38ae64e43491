package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurangzeb-bilal/update-username/internal/container"
	handlers "github.com/aurangzeb-bilal/update-username/internal/interface/http"
	"github.com/aurangzeb-bilal/update-username/internal/interface/middleware"
)

// UsernameModule wires the username-change endpoints into routes.
// POST /api/username   — rename a directory user (bearer token required)
// GET  /api/users/:id  — read back a directory record
type UsernameModule struct {
	Handler *handlers.UpdateHandler
}

func NewUsernameModule(h *handlers.UpdateHandler) *UsernameModule {
	return &UsernameModule{Handler: h}
}

func (m *UsernameModule) Register(rg *gin.RouterGroup) {
	updateLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	readLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	protected := rg.Group("/")
	protected.Use(middleware.BearerToken())
	{
		protected.POST("/username", updateLimiter, m.Handler.UpdateUsername)
		protected.GET("/users/:id", readLimiter, m.Handler.GetUser)
	}
}
