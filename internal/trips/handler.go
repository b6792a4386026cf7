package trips

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

// RegisterRoutes registers trip and route endpoints
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1")

	// Public search for the booking apps
	api.GET("/routes", h.ListRoutes)
	api.GET("/trips", h.SearchTrips)
	api.GET("/trips/:id", h.GetTrip)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/routes", h.CreateRoute)
		admin.GET("/routes", h.ListAllRoutes)
		admin.PUT("/routes/:id", h.UpdateRoute)
		admin.POST("/trips", h.ScheduleTrip)
		admin.PUT("/trips/:id", h.UpdateTrip)
	}
}

// RouteRequest is the admin route payload
type RouteRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

// ScheduleTripRequest is the admin trip creation payload
type ScheduleTripRequest struct {
	RouteID       string    `json:"route_id" binding:"required,uuid"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	VehicleType   string    `json:"vehicle_type" binding:"required"`
	SeatPrice     float64   `json:"seat_price" binding:"required,gt=0"`
	TotalSeats    int       `json:"total_seats" binding:"required,min=1"`
}

// UpdateTripRequest is the admin trip update payload
type UpdateTripRequest struct {
	DepartureTime  time.Time `json:"departure_time" binding:"required"`
	VehicleType    string    `json:"vehicle_type" binding:"required"`
	SeatPrice      float64   `json:"seat_price" binding:"required,gt=0"`
	TotalSeats     int       `json:"total_seats" binding:"required,min=1"`
	SeatsAvailable int       `json:"seats_available" binding:"min=0"`
	Status         string    `json:"status" binding:"required,oneof=scheduled departed completed cancelled"`
}

// ListRoutes lists active routes
func (h *Handler) ListRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context(), true)
	if common.HandleServiceError(c, err, "failed to list routes") {
		return
	}

	common.SuccessResponse(c, routes)
}

// ListAllRoutes lists all routes including inactive ones
func (h *Handler) ListAllRoutes(c *gin.Context) {
	routes, err := h.service.ListRoutes(c.Request.Context(), false)
	if common.HandleServiceError(c, err, "failed to list routes") {
		return
	}

	common.SuccessResponse(c, routes)
}

// CreateRoute registers a new route
func (h *Handler) CreateRoute(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	route := &Route{Origin: req.Origin, Destination: req.Destination, IsActive: active}
	if err := h.service.CreateRoute(c.Request.Context(), route); err != nil {
		common.HandleServiceError(c, err, "failed to create route")
		return
	}

	common.CreatedResponse(c, route)
}

// UpdateRoute updates a route
func (h *Handler) UpdateRoute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid route ID")
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	route := &Route{ID: id, Origin: req.Origin, Destination: req.Destination, IsActive: active}
	if err := h.service.UpdateRoute(c.Request.Context(), route); err != nil {
		common.HandleServiceError(c, err, "failed to update route")
		return
	}

	common.SuccessResponse(c, route)
}

// SearchTrips lists trips filtered by origin, destination, date and status
func (h *Handler) SearchTrips(c *gin.Context) {
	params := pagination.ParseParams(c)

	filter := TripFilter{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Status:      c.Query("status"),
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
			return
		}
		filter.Date = &date
	}

	trips, total, err := h.service.SearchTrips(c.Request.Context(), filter, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to search trips") {
		return
	}

	common.SuccessResponseWithMeta(c, trips, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// GetTrip returns a single trip
func (h *Handler) GetTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	trip, err := h.service.GetTrip(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to load trip") {
		return
	}

	common.SuccessResponse(c, trip)
}

// ScheduleTrip creates a new departure
func (h *Handler) ScheduleTrip(c *gin.Context) {
	var req ScheduleTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid route ID")
		return
	}

	trip := &Trip{
		RouteID:       routeID,
		DepartureTime: req.DepartureTime,
		VehicleType:   req.VehicleType,
		SeatPrice:     req.SeatPrice,
		TotalSeats:    req.TotalSeats,
	}

	if err := h.service.ScheduleTrip(c.Request.Context(), trip); err != nil {
		common.HandleServiceError(c, err, "failed to schedule trip")
		return
	}

	common.CreatedResponse(c, trip)
}

// UpdateTrip updates a scheduled trip
func (h *Handler) UpdateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid trip ID")
		return
	}

	var req UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	trip := &Trip{
		ID:             id,
		DepartureTime:  req.DepartureTime,
		VehicleType:    req.VehicleType,
		SeatPrice:      req.SeatPrice,
		TotalSeats:     req.TotalSeats,
		SeatsAvailable: req.SeatsAvailable,
		Status:         req.Status,
	}

	if err := h.service.UpdateTrip(c.Request.Context(), trip); err != nil {
		common.HandleServiceError(c, err, "failed to update trip")
		return
	}

	common.SuccessResponse(c, trip)
}
