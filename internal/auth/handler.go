package auth

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

// RegisterRoutes registers auth routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1/auth")

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", h.GetProfile)
		protected.PUT("/me", h.UpdateProfile)
	}
}

// UpdateProfileRequest is the profile update payload
type UpdateProfileRequest struct {
	FullName    string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone" binding:"required"`
}

// Register creates a new account
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), &req)
	if common.HandleServiceError(c, err, "failed to register account") {
		return
	}

	common.CreatedResponse(c, resp)
}

// Login authenticates a user
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if common.HandleServiceError(c, err, "failed to log in") {
		return
	}

	common.SuccessResponse(c, resp)
}

// GetProfile returns the authenticated user's account
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if common.HandleServiceError(c, err, "failed to load profile") {
		return
	}

	common.SuccessResponse(c, user)
}

// UpdateProfile updates the authenticated user's details
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req.FullName, req.PhoneNumber)
	if common.HandleServiceError(c, err, "failed to update profile") {
		return
	}

	common.SuccessResponse(c, user)
}
