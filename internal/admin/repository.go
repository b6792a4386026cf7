package admin

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/transitpadi/transit-backend/pkg/common"
)

// DashboardStats aggregates the figures the operations dashboard shows.
type DashboardStats struct {
	TotalUsers          int64   `json:"total_users"`
	TotalDrivers        int64   `json:"total_drivers"`
	BookingsToday       int64   `json:"bookings_today"`
	TotalBookings       int64   `json:"total_bookings"`
	PendingBookings     int64   `json:"pending_bookings"`
	RevenueToday        float64 `json:"revenue_today"`
	RevenueTotal        float64 `json:"revenue_total"`
	PendingFundRequests int64   `json:"pending_fund_requests"`
	UpcomingTrips       int64   `json:"upcoming_trips"`
	WalletLiability     float64 `json:"wallet_liability"`

	GeneratedAt time.Time `json:"generated_at"`
}

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetDashboardStats collects the dashboard aggregates in a single round trip.
// Revenue counts confirmed and completed bookings only.
func (r *PostgresRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: time.Now()}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM users WHERE role = 'driver' AND deleted_at IS NULL),
			(SELECT COUNT(*) FROM bookings WHERE created_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM bookings WHERE status = 'pending'),
			(SELECT COALESCE(SUM(total_price), 0) FROM bookings
				WHERE status IN ('confirmed', 'completed') AND created_at::date = CURRENT_DATE),
			(SELECT COALESCE(SUM(total_price), 0) FROM bookings
				WHERE status IN ('confirmed', 'completed')),
			(SELECT COUNT(*) FROM fund_requests WHERE status = 'pending'),
			(SELECT COUNT(*) FROM trips WHERE status = 'scheduled' AND departure_time > NOW()),
			(SELECT COALESCE(SUM(wallet_balance), 0) FROM users WHERE deleted_at IS NULL)`

	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.TotalDrivers,
		&stats.BookingsToday,
		&stats.TotalBookings,
		&stats.PendingBookings,
		&stats.RevenueToday,
		&stats.RevenueTotal,
		&stats.PendingFundRequests,
		&stats.UpcomingTrips,
		&stats.WalletLiability,
	)

	if err != nil {
		return nil, common.NewInternalError("failed to load dashboard stats", err)
	}

	return stats, nil
}
