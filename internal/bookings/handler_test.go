package bookings

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/pkg/middleware"
	"github.com/transitpadi/transit-backend/pkg/models"
)

const testJWTSecret = "test-secret"

func signTestToken(t *testing.T, userID uuid.UUID, role models.UserRole) string {
	t.Helper()
	claims := middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	return token
}

func newTestRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(service).RegisterRoutes(router, testJWTSecret)
	return router
}

func getBookingAs(router *gin.Engine, bookingID uuid.UUID, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetBooking_AdminReadsAnyBooking(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(newTestService(mockRepo, new(MockTripFinder), new(MockSettingsProvider), new(MockCouponEvaluator)))

	owner := uuid.New()
	bookingID := uuid.New()
	mockRepo.On("GetBookingByID", mock.Anything, bookingID).
		Return(&Booking{ID: bookingID, UserID: &owner, Status: StatusPending}, nil)

	w := getBookingAs(router, bookingID, signTestToken(t, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBooking_StrangerGetsForbidden(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(newTestService(mockRepo, new(MockTripFinder), new(MockSettingsProvider), new(MockCouponEvaluator)))

	owner := uuid.New()
	bookingID := uuid.New()
	mockRepo.On("GetBookingByID", mock.Anything, bookingID).
		Return(&Booking{ID: bookingID, UserID: &owner, Status: StatusPending}, nil)

	w := getBookingAs(router, bookingID, signTestToken(t, uuid.New(), models.RolePassenger))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetBooking_OwnerReadsOwnBooking(t *testing.T) {
	mockRepo := new(MockRepository)
	router := newTestRouter(newTestService(mockRepo, new(MockTripFinder), new(MockSettingsProvider), new(MockCouponEvaluator)))

	owner := uuid.New()
	bookingID := uuid.New()
	mockRepo.On("GetBookingByID", mock.Anything, bookingID).
		Return(&Booking{ID: bookingID, UserID: &owner, Status: StatusPending}, nil)

	w := getBookingAs(router, bookingID, signTestToken(t, owner, models.RolePassenger))

	assert.Equal(t, http.StatusOK, w.Code)
}
