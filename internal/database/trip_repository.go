package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/transix/booking-backend/internal/models"
)

// TripRepository handles trip database operations
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `
	t.id, t.agency_id, t.from_location, t.to_location,
	t.journey_date, t.departure_time, t.price, t.seats, t.reserved,
	t.bus_type, a.name AS agency_name, t.created_at, t.updated_at`

// Search returns trips matching all supplied filters, ordered by departure
// ascending. An empty filter returns every trip.
func (r *TripRepository) Search(filter models.TripSearchFilter) ([]models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN agencies a ON a.id = t.agency_id`, tripColumns)

	conditions := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if filter.From != "" {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("LOWER(t.from_location) = LOWER($%d)", len(args)))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("LOWER(t.to_location) = LOWER($%d)", len(args)))
	}
	if filter.JourneyDate != "" {
		args = append(args, filter.JourneyDate)
		conditions = append(conditions, fmt.Sprintf("t.journey_date = $%d", len(args)))
	}
	if filter.DepartureTimeMin != "" {
		args = append(args, filter.DepartureTimeMin)
		conditions = append(conditions, fmt.Sprintf("t.departure_time >= $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.journey_date ASC, t.departure_time ASC"

	var trips []models.Trip
	if err := r.db.Select(&trips, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}
	return trips, nil
}

// GetByID retrieves a single trip
func (r *TripRepository) GetByID(tripID uuid.UUID) (*models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM trips t
		JOIN agencies a ON a.id = t.agency_id
		WHERE t.id = $1`, tripColumns)

	trip := &models.Trip{}
	if err := r.db.Get(trip, query, tripID); err != nil {
		return nil, err
	}
	return trip, nil
}
