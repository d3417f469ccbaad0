package v1

import (
	httpHandler "go-parley/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, deps httpHandler.Deps) {
	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, deps)
}
