package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	"github.com/transitpadi/transit-backend/pkg/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers admin dashboard routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", h.GetDashboard)
	}
}

// GetDashboard returns operations dashboard aggregates
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.service.GetDashboardStats(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to load dashboard") {
		return
	}

	common.SuccessResponse(c, stats)
}
