package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/transitpadi/transit-backend/pkg/common"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DashboardStats), args.Error(1)
}

func TestGetDashboardStats(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil)

	mockRepo.On("GetDashboardStats", mock.Anything).Return(&DashboardStats{
		TotalUsers:          120,
		TotalDrivers:        14,
		BookingsToday:       9,
		RevenueToday:        135000,
		PendingFundRequests: 2,
		WalletLiability:     482500,
	}, nil)

	stats, err := service.GetDashboardStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(120), stats.TotalUsers)
	assert.Equal(t, float64(135000), stats.RevenueToday)
	assert.Equal(t, float64(482500), stats.WalletLiability)
	mockRepo.AssertExpectations(t)
}

func TestGetDashboardStats_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, nil)

	mockRepo.On("GetDashboardStats", mock.Anything).
		Return(nil, common.NewInternalError("failed to load dashboard stats", nil))

	_, err := service.GetDashboardStats(context.Background())

	assert.Error(t, err)
}
