package settings

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

// RegisterRoutes registers settings and charter package routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1")

	// Public reads for the booking apps
	api.GET("/settings", h.GetOperationsSettings)
	api.GET("/charter-packages", h.ListCharterPackages)
	api.GET("/charter-packages/:id", h.GetCharterPackage)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.PUT("/settings", h.UpdateOperationsSettings)
		admin.GET("/charter-packages", h.ListAllCharterPackages)
		admin.PUT("/charter-packages/:id", h.SaveCharterPackage)
		admin.DELETE("/charter-packages/:id", h.DeactivateCharterPackage)
	}
}

// UpdateSettingsRequest is the admin settings payload
type UpdateSettingsRequest struct {
	SupportPhone       string `json:"support_phone" binding:"required"`
	SupportEmail       string `json:"support_email" binding:"required,email"`
	BookingsOpen       *bool  `json:"bookings_open" binding:"required"`
	CharterOpen        *bool  `json:"charter_open" binding:"required"`
	MaxSeatsPerBooking int     `json:"max_seats_per_booking" binding:"required,min=1"`
	ReferralEnabled    *bool   `json:"referral_enabled" binding:"required"`
	ReferralBonus      float64 `json:"referral_bonus" binding:"gte=0"`
	AnnouncementText   string  `json:"announcement_text"`
}

// CharterPackageRequest is the admin package payload
type CharterPackageRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	VehicleType string  `json:"vehicle_type" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
	BasePrice   float64 `json:"base_price" binding:"required,gt=0"`
	DailyRate   float64 `json:"daily_rate" binding:"gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// GetOperationsSettings returns the public company settings
func (h *Handler) GetOperationsSettings(c *gin.Context) {
	settings, err := h.service.GetOperationsSettings(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to load operations settings") {
		return
	}

	common.SuccessResponse(c, settings)
}

// UpdateOperationsSettings updates company settings
func (h *Handler) UpdateOperationsSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	settings := &OperationsSettings{
		SupportPhone:       req.SupportPhone,
		SupportEmail:       req.SupportEmail,
		BookingsOpen:       *req.BookingsOpen,
		CharterOpen:        *req.CharterOpen,
		MaxSeatsPerBooking: req.MaxSeatsPerBooking,
		ReferralEnabled:    *req.ReferralEnabled,
		ReferralBonus:      req.ReferralBonus,
		AnnouncementText:   req.AnnouncementText,
	}

	if err := h.service.UpdateOperationsSettings(c.Request.Context(), settings); err != nil {
		common.HandleServiceError(c, err, "failed to update settings")
		return
	}

	common.SuccessResponse(c, settings)
}

// ListCharterPackages lists active charter packages
func (h *Handler) ListCharterPackages(c *gin.Context) {
	packages, err := h.service.ListCharterPackages(c.Request.Context(), true)
	if common.HandleServiceError(c, err, "failed to list charter packages") {
		return
	}

	common.SuccessResponse(c, packages)
}

// ListAllCharterPackages lists all charter packages including inactive ones
func (h *Handler) ListAllCharterPackages(c *gin.Context) {
	packages, err := h.service.ListCharterPackages(c.Request.Context(), false)
	if common.HandleServiceError(c, err, "failed to list charter packages") {
		return
	}

	common.SuccessResponse(c, packages)
}

// GetCharterPackage returns one charter package
func (h *Handler) GetCharterPackage(c *gin.Context) {
	pkg, err := h.service.GetCharterPackage(c.Request.Context(), c.Param("id"))
	if common.HandleServiceError(c, err, "failed to load charter package") {
		return
	}

	common.SuccessResponse(c, pkg)
}

// SaveCharterPackage creates or updates a charter package
func (h *Handler) SaveCharterPackage(c *gin.Context) {
	var req CharterPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	pkg := &CharterPackage{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		VehicleType: req.VehicleType,
		Capacity:    req.Capacity,
		BasePrice:   req.BasePrice,
		DailyRate:   req.DailyRate,
		IsActive:    active,
	}

	if err := h.service.SaveCharterPackage(c.Request.Context(), pkg); err != nil {
		common.HandleServiceError(c, err, "failed to save charter package")
		return
	}

	common.SuccessResponse(c, pkg)
}

// DeactivateCharterPackage retires a charter package
func (h *Handler) DeactivateCharterPackage(c *gin.Context) {
	if err := h.service.DeactivateCharterPackage(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleServiceError(c, err, "failed to deactivate charter package")
		return
	}

	common.SuccessResponseWithMessage(c, "charter package deactivated", nil)
}
