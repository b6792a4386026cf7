package trips

import (
	"time"

	"github.com/google/uuid"
)

// Trip statuses
const (
	StatusScheduled = "scheduled"
	StatusDeparted  = "departed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Route is a serviced origin-destination pair.
type Route struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Trip is a scheduled departure on a route. SeatPrice is the authoritative
// per-seat fare; booking totals are always computed from it server-side.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	RouteID        uuid.UUID `json:"route_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	VehicleType    string    `json:"vehicle_type"`
	SeatPrice      float64   `json:"seat_price"`
	TotalSeats     int       `json:"total_seats"`
	SeatsAvailable int       `json:"seats_available"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TripFilter narrows trip listings.
type TripFilter struct {
	Origin      string
	Destination string
	Date        *time.Time
	Status      string
}
