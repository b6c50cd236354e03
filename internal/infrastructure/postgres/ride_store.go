package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type RideStore struct {
	db *sql.DB
}

func NewRideStore(db *sql.DB) *RideStore {
	return &RideStore{db: db}
}

func (s *RideStore) Create(ctx context.Context, rd *ride.Ride) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rides (id, customer_id, customer_email, driver_id, pickup, dropoff, fare, status, requested_at, completed_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rd.ID, rd.CustomerID, rd.CustomerEmail, nullString(rd.DriverID),
		rd.Pickup, rd.Dropoff, rd.Fare, rd.Status, rd.RequestedAt, rd.CompletedAt, rd.Version)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

func (s *RideStore) FindByID(ctx context.Context, id string) (*ride.Ride, error) {
	rd, err := scanRide(s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, customer_email, driver_id, pickup, dropoff, fare, status, requested_at, completed_at, version
		 FROM rides WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ride.ErrNotFound
		}
		return nil, fmt.Errorf("get ride: %w", err)
	}
	return rd, nil
}

// Update persists a transitioned ride guarded by the version it was read at,
// so two actors racing on the same ride cannot both win.
func (s *RideStore) Update(ctx context.Context, rd *ride.Ride) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE rides
		 SET driver_id = $1, fare = $2, status = $3, completed_at = $4, version = version + 1
		 WHERE id = $5 AND version = $6`,
		nullString(rd.DriverID), rd.Fare, rd.Status, rd.CompletedAt, rd.ID, rd.Version)
	if err != nil {
		return fmt.Errorf("update ride: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ride: rows affected: %w", err)
	}
	if affected == 0 {
		if _, findErr := s.FindByID(ctx, rd.ID); findErr != nil {
			return findErr
		}
		return ride.ErrConflict
	}
	return nil
}

func (s *RideStore) List(ctx context.Context, filter ride.Filter, page pagination.Request) (pagination.Page[*ride.Ride], error) {
	page = page.Normalize()

	where, args := rideFilterClause(filter)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rides `+where, args...).Scan(&total); err != nil {
		return pagination.Page[*ride.Ride]{}, fmt.Errorf("count rides: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, customer_id, customer_email, driver_id, pickup, dropoff, fare, status, requested_at, completed_at, version
		 FROM rides %s
		 ORDER BY seq
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return pagination.Page[*ride.Ride]{}, fmt.Errorf("list rides: %w", err)
	}
	defer rows.Close()

	var rides []*ride.Ride
	for rows.Next() {
		rd, err := scanRide(rows)
		if err != nil {
			return pagination.Page[*ride.Ride]{}, fmt.Errorf("scan ride: %w", err)
		}
		rides = append(rides, rd)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*ride.Ride]{}, fmt.Errorf("list rides: %w", err)
	}

	return pagination.Page[*ride.Ride]{
		Items: rides,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*ride.Ride, error) {
	rd := &ride.Ride{}
	var driverID sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&rd.ID, &rd.CustomerID, &rd.CustomerEmail, &driverID,
		&rd.Pickup, &rd.Dropoff, &rd.Fare, &rd.Status, &rd.RequestedAt, &completedAt, &rd.Version)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		rd.DriverID = driverID.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		rd.CompletedAt = &t
	}
	return rd, nil
}

func rideFilterClause(filter ride.Filter) (string, []any) {
	where := ""
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = fmt.Sprintf("WHERE %s $%d", cond, len(args))
		} else {
			where += fmt.Sprintf(" AND %s $%d", cond, len(args))
		}
	}

	if filter.CustomerID != "" {
		add("customer_id =", filter.CustomerID)
	}
	if filter.CustomerEmail != "" {
		add("customer_email =", filter.CustomerEmail)
	}
	if filter.Status != "" {
		add("status =", string(filter.Status))
	}
	return where, args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
