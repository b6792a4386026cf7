package notifications

import (
	"net/http"

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

// RegisterRoutes registers notification routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1/notifications")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.POST("/device-tokens", h.RegisterDeviceToken)
		api.DELETE("/device-tokens", h.RemoveDeviceToken)
	}

	admin := router.Group("/api/v1/admin/notifications")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/broadcast", h.Broadcast)
	}
}

// DeviceTokenRequest registers or removes a push token
type DeviceTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"omitempty,oneof=android ios web"`
}

// BroadcastRequest is an admin topic broadcast payload
type BroadcastRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// RegisterDeviceToken stores the caller's device token
func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	platform := req.Platform
	if platform == "" {
		platform = "android"
	}

	token, err := h.service.RegisterDeviceToken(c.Request.Context(), userID, req.Token, platform)
	if common.HandleServiceError(c, err, "failed to register device token") {
		return
	}

	common.CreatedResponse(c, token)
}

// RemoveDeviceToken deletes the caller's device token
func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.service.RemoveDeviceToken(c.Request.Context(), userID, req.Token); err != nil {
		common.HandleServiceError(c, err, "failed to remove device token")
		return
	}

	common.SuccessResponseWithMessage(c, "device token removed", nil)
}

// Broadcast publishes an alert to the admin topic
func (h *Handler) Broadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	h.service.NotifyAdmins(c.Request.Context(), req.Title, req.Body)

	common.SuccessResponseWithMessage(c, "broadcast queued", nil)
}
