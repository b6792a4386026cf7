package wallet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/transitpadi/transit-backend/pkg/common"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	"github.com/transitpadi/transit-backend/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers wallet routes
func (h *Handler) RegisterRoutes(router *gin.Engine, jwtSecret string) {
	api := router.Group("/api/v1/wallet")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.GET("", h.GetWallet)
		api.POST("/fund", h.FundWallet)
		api.GET("/transactions", h.ListTransactions)
	}
}

// FundWalletRequest carries the gateway payment reference and the amount the
// client believes was paid. The credited amount always comes from the gateway.
type FundWalletRequest struct {
	Reference string  `json:"reference" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// GetWallet returns the authenticated user's balance
func (h *Handler) GetWallet(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), userID)
	if common.HandleServiceError(c, err, "failed to load wallet") {
		return
	}

	common.SuccessResponse(c, gin.H{"balance": balance, "currency": "NGN"})
}

// FundWallet verifies a payment reference and credits the wallet
func (h *Handler) FundWallet(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.service.FundWallet(c.Request.Context(), userID, req.Reference, req.Amount)
	if common.HandleServiceError(c, err, "failed to fund wallet") {
		return
	}

	if result.AlreadyProcessed {
		common.SuccessResponseWithMessage(c, "payment already processed", result)
		return
	}

	common.SuccessResponse(c, result)
}

// ListTransactions returns the user's wallet ledger
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)
	transactions, total, err := h.service.ListTransactions(c.Request.Context(), userID, params.Limit, params.Offset)
	if common.HandleServiceError(c, err, "failed to list transactions") {
		return
	}

	common.SuccessResponseWithMeta(c, transactions, pagination.BuildMeta(params.Limit, params.Offset, total))
}
