package promos

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	"github.com/transitpadi/transit-backend/pkg/models"
	"github.com/transitpadi/transit-backend/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers promotion routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1")

	// Coupon validation is open to guests so the booking form can preview
	// discounts before checkout
	api.POST("/promotions/validate", h.ValidateCoupon)

	admin := api.Group("/admin/promotions")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("", h.CreatePromotion)
		admin.GET("", h.ListPromotions)
		admin.GET("/:id", h.GetPromotion)
		admin.PUT("/:id", h.UpdatePromotion)
		admin.DELETE("/:id", h.DeactivatePromotion)
	}
}

// ValidateCouponRequest previews a coupon against a prospective booking
type ValidateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	BookingType string  `json:"booking_type" binding:"required,oneof=passenger charter"`
	PackageID   string  `json:"package_id"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// PromotionRequest is the admin create/update payload
type PromotionRequest struct {
	Code          string  `json:"code" binding:"required"`
	Description   string  `json:"description"`
	Status        string  `json:"status" binding:"omitempty,oneof=active inactive"`
	DiscountType  string  `json:"discount_type" binding:"required,oneof=fixed percentage"`
	DiscountValue float64 `json:"discount_value" binding:"required,gt=0"`
	AppliesTo     string  `json:"applies_to" binding:"required,oneof=all seat_booking charter specific_package"`
	PackageID     *string `json:"package_id"`
}

// ValidateCoupon evaluates a coupon code against a booking context
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	eval, err := h.service.ApplyCode(c.Request.Context(), req.Code, BookingContext{
		BookingType: req.BookingType,
		PackageID:   req.PackageID,
	}, req.Price)
	if common.HandleServiceError(c, err, "failed to validate coupon") {
		return
	}

	common.SuccessResponse(c, eval)
}

// CreatePromotion creates a new promotion
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	promo := &Promotion{
		Code:          req.Code,
		Description:   req.Description,
		Status:        req.Status,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		AppliesTo:     req.AppliesTo,
		PackageID:     req.PackageID,
	}

	if adminID, err := middleware.GetUserID(c); err == nil {
		promo.CreatedBy = &adminID
	}

	if err := h.service.CreatePromotion(c.Request.Context(), promo); err != nil {
		common.HandleServiceError(c, err, "failed to create promotion")
		return
	}

	common.CreatedResponse(c, promo)
}

// GetPromotion retrieves a single promotion
func (h *Handler) GetPromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid promotion ID")
		return
	}

	promo, err := h.service.GetPromotion(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to load promotion") {
		return
	}

	common.SuccessResponse(c, promo)
}

// ListPromotions lists promotions with pagination
func (h *Handler) ListPromotions(c *gin.Context) {
	params := pagination.ParseParams(c)

	promotions, total, err := h.service.ListPromotions(c.Request.Context(), params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list promotions") {
		return
	}

	common.SuccessResponseWithMeta(c, promotions, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// UpdatePromotion updates an existing promotion
func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid promotion ID")
		return
	}

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	promo := &Promotion{
		ID:            id,
		Code:          req.Code,
		Description:   req.Description,
		Status:        req.Status,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		AppliesTo:     req.AppliesTo,
		PackageID:     req.PackageID,
	}

	if err := h.service.UpdatePromotion(c.Request.Context(), promo); err != nil {
		common.HandleServiceError(c, err, "failed to update promotion")
		return
	}

	common.SuccessResponse(c, promo)
}

// DeactivatePromotion deactivates a promotion
func (h *Handler) DeactivatePromotion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid promotion ID")
		return
	}

	if err := h.service.DeactivatePromotion(c.Request.Context(), id); err != nil {
		common.HandleServiceError(c, err, "failed to deactivate promotion")
		return
	}

	common.SuccessResponseWithMessage(c, "promotion deactivated", nil)
}
