package bookings

import (
	"net/http"
	"time"

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

// RegisterRoutes registers booking routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1")

	// Booking creation accepts both authenticated users and guests; a valid
	// token attaches the booking to the account, anything else books as guest
	api.POST("/bookings", middleware.OptionalAuth(jwtSecret), h.CreateBooking)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.GET("/bookings", h.ListMyBookings)
		authed.GET("/bookings/:id", h.GetBooking)
	}

	admin := api.Group("/admin/bookings")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("", h.ListBookings)
		admin.PATCH("/:id/status", h.UpdateStatus)
	}
}

// CreateBookingRequest is the booking creation payload
type CreateBookingRequest struct {
	BookingType string `json:"booking_type" binding:"required,oneof=passenger charter"`

	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone"`

	TripID string `json:"trip_id" binding:"omitempty,uuid"`
	Seats  int    `json:"seats" binding:"omitempty,min=1"`

	PackageID      string     `json:"package_id"`
	StartDate      *time.Time `json:"start_date"`
	Days           int        `json:"days" binding:"omitempty,min=1"`
	PickupLocation string     `json:"pickup_location"`
	Destination    string     `json:"destination"`

	CouponCode string `json:"coupon_code"`
}

// UpdateStatusRequest is the admin status transition payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// CreateBooking creates a passenger or charter booking
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	input := CreateBookingInput{
		UserID:         middleware.OptionalUserID(c),
		GuestName:      req.GuestName,
		GuestPhone:     req.GuestPhone,
		BookingType:    req.BookingType,
		Seats:          req.Seats,
		PackageID:      req.PackageID,
		StartDate:      req.StartDate,
		Days:           req.Days,
		PickupLocation: req.PickupLocation,
		Destination:    req.Destination,
		CouponCode:     req.CouponCode,
	}

	if req.TripID != "" {
		tripID, err := uuid.Parse(req.TripID)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
			return
		}
		input.TripID = &tripID
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), input)
	if common.HandleServiceError(c, err, "failed to create booking") {
		return
	}

	common.CreatedResponse(c, booking)
}

// ListMyBookings lists the authenticated user's bookings
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	bookings, total, err := h.service.ListUserBookings(c.Request.Context(), userID, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list bookings") {
		return
	}

	common.SuccessResponseWithMeta(c, bookings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetBooking retrieves a single booking with owner-or-admin access
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid booking ID")
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	role, _ := middleware.GetUserRole(c)
	isAdmin := role == models.RoleAdmin

	booking, err := h.service.GetBooking(c.Request.Context(), id, &userID, isAdmin)
	if common.HandleServiceError(c, err, "failed to load booking") {
		return
	}

	common.SuccessResponse(c, booking)
}

// ListBookings lists bookings for admins with optional filters
func (h *Handler) ListBookings(c *gin.Context) {
	params := pagination.ParseParams(c)

	filter := BookingFilter{
		BookingType: c.Query("booking_type"),
		Status:      c.Query("status"),
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid user ID")
			return
		}
		filter.UserID = &userID
	}

	bookings, total, err := h.service.ListBookings(c.Request.Context(), filter, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list bookings") {
		return
	}

	common.SuccessResponseWithMeta(c, bookings, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// UpdateStatus transitions a booking's status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	booking, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if common.HandleServiceError(c, err, "failed to update booking status") {
		return
	}

	common.SuccessResponse(c, booking)
}
