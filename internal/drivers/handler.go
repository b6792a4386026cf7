package drivers

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

// RegisterRoutes registers driver routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	driver := router.Group("/api/v1/driver")
	driver.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleDriver))
	{
		driver.POST("/fund-requests", h.RequestFunds)
		driver.GET("/fund-requests", h.ListMyFundRequests)
		driver.POST("/expenses", h.RecordExpense)
		driver.GET("/expenses", h.ListMyExpenses)
	}

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/fund-requests", h.ListFundRequests)
		admin.PATCH("/fund-requests/:id/review", h.ReviewFundRequest)
		admin.GET("/expenses", h.ListExpenses)
	}
}

// FundRequestRequest files a fund request
type FundRequestRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
}

// ReviewRequest approves or rejects a fund request
type ReviewRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

// ExpenseRequest files an expense report
type ExpenseRequest struct {
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Category    string    `json:"category" binding:"required,oneof=fuel maintenance tolls other"`
	Description string    `json:"description"`
	ExpenseDate time.Time `json:"expense_date" binding:"required"`
}

// RequestFunds files a driver fund request
func (h *Handler) RequestFunds(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req FundRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	fundRequest, err := h.service.RequestFunds(c.Request.Context(), driverID, req.Amount, req.Reason)
	if common.HandleServiceError(c, err, "failed to submit fund request") {
		return
	}

	common.CreatedResponse(c, fundRequest)
}

// ListMyFundRequests lists the driver's fund requests
func (h *Handler) ListMyFundRequests(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	requests, total, err := h.service.ListMyFundRequests(c.Request.Context(), driverID, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list fund requests") {
		return
	}

	common.SuccessResponseWithMeta(c, requests, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ListFundRequests lists fund requests for admin review
func (h *Handler) ListFundRequests(c *gin.Context) {
	params := pagination.ParseParams(c)
	requests, total, err := h.service.ListFundRequests(c.Request.Context(), c.Query("status"), params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list fund requests") {
		return
	}

	common.SuccessResponseWithMeta(c, requests, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ReviewFundRequest approves or rejects a fund request
func (h *Handler) ReviewFundRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid fund request ID")
		return
	}

	reviewerID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	fundRequest, err := h.service.ReviewFundRequest(c.Request.Context(), id, req.Approve, reviewerID, req.Note)
	if common.HandleServiceError(c, err, "failed to review fund request") {
		return
	}

	common.SuccessResponse(c, fundRequest)
}

// RecordExpense files a driver expense
func (h *Handler) RecordExpense(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	expense, err := h.service.RecordExpense(c.Request.Context(), driverID, req.Amount, req.Category, req.Description, req.ExpenseDate)
	if common.HandleServiceError(c, err, "failed to record expense") {
		return
	}

	common.CreatedResponse(c, expense)
}

// ListMyExpenses lists the driver's expenses
func (h *Handler) ListMyExpenses(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	expenses, total, err := h.service.ListMyExpenses(c.Request.Context(), driverID, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list expenses") {
		return
	}

	common.SuccessResponseWithMeta(c, expenses, pagination.BuildMeta(params.Limit, params.Offset, total))
}

// ListExpenses lists all driver expenses for admins
func (h *Handler) ListExpenses(c *gin.Context) {
	params := pagination.ParseParams(c)
	expenses, total, err := h.service.ListExpenses(c.Request.Context(), params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list expenses") {
		return
	}

	common.SuccessResponseWithMeta(c, expenses, pagination.BuildMeta(params.Limit, params.Offset, total))
}
