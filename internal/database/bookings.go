package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `b.id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at,
       bu.id, bu.name, bu.email, bu.created_at, bu.updated_at,
       i.id, i.name, i.description, i.available, i.request_id, i.created_at, i.updated_at,
       o.id, o.name, o.email, o.created_at, o.updated_at`

const bookingFrom = ` FROM bookings b
       JOIN users bu ON bu.id = b.booker_id
       JOIN items i ON i.id = b.item_id
       JOIN users o ON o.id = i.owner_id`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var requestID sql.NullInt64
	var startStr, endStr, createdStr, updatedStr string
	var bookerCreatedStr, bookerUpdatedStr string
	var itemCreatedStr, itemUpdatedStr, ownerCreatedStr, ownerUpdatedStr string

	err := row.Scan(
		&b.ID, &startStr, &endStr, &b.Status, &createdStr, &updatedStr,
		&b.Booker.ID, &b.Booker.Name, &b.Booker.Email, &bookerCreatedStr, &bookerUpdatedStr,
		&b.Item.ID, &b.Item.Name, &b.Item.Description, &b.Item.Available, &requestID, &itemCreatedStr, &itemUpdatedStr,
		&b.Item.Owner.ID, &b.Item.Owner.Name, &b.Item.Owner.Email, &ownerCreatedStr, &ownerUpdatedStr,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		id := requestID.Int64
		b.Item.RequestID = &id
	}

	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&b.Start, startStr},
		{&b.End, endStr},
		{&b.CreatedAt, createdStr},
		{&b.UpdatedAt, updatedStr},
		{&b.Booker.CreatedAt, bookerCreatedStr},
		{&b.Booker.UpdatedAt, bookerUpdatedStr},
		{&b.Item.CreatedAt, itemCreatedStr},
		{&b.Item.UpdatedAt, itemUpdatedStr},
		{&b.Item.Owner.CreatedAt, ownerCreatedStr},
		{&b.Item.Owner.UpdatedAt, ownerUpdatedStr},
	} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return nil, err
		}
	}
	return &b, nil
}

// CreateBooking persists the booking. Booker.ID and Item.ID must be set;
// no overlap check is made against other bookings of the same item.
func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, status, booker_id, item_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		formatTime(booking.Start),
		formatTime(booking.End),
		booking.Status,
		booking.Booker.ID,
		booking.Item.ID,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE b.id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: booking %d not found", domain.ErrNotFound, id)
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("%w: booking %d not found", domain.ErrNotFound, id)
	}
	return nil
}

// stateClause is the SQL form of models.BookingState.Matches.
func stateClause(state models.BookingState, now time.Time) (string, []interface{}, error) {
	ts := formatTime(now)
	switch state {
	case models.StateAll:
		return "", nil, nil
	case models.StateCurrent:
		return ` AND b.status = ? AND b.start_date < ? AND b.end_date >= ?`,
			[]interface{}{models.StatusApproved, ts, ts}, nil
	case models.StatePast:
		return ` AND b.status = ? AND b.end_date <= ?`, []interface{}{models.StatusApproved, ts}, nil
	case models.StateFuture:
		return ` AND b.status = ? AND b.start_date >= ?`, []interface{}{models.StatusApproved, ts}, nil
	case models.StateWaiting:
		return ` AND b.status = ?`, []interface{}{models.StatusWaiting}, nil
	case models.StateRejected:
		return ` AND b.status = ?`, []interface{}{models.StatusRejected}, nil
	default:
		return "", nil, &models.ErrUnknownState{Raw: string(state)}
	}
}

// GetBookerBookings lists bookings made by bookerID in the given view, newest start first.
func (db *DB) GetBookerBookings(
	ctx context.Context,
	bookerID int64,
	state models.BookingState,
	now time.Time,
	page models.Page,
) ([]*models.Booking, error) {
	return db.listBookings(ctx, `b.booker_id = ?`, bookerID, state, now, page)
}

// GetOwnerBookings lists bookings of items owned by ownerID in the given view, newest start first.
func (db *DB) GetOwnerBookings(
	ctx context.Context,
	ownerID int64,
	state models.BookingState,
	now time.Time,
	page models.Page,
) ([]*models.Booking, error) {
	return db.listBookings(ctx, `i.owner_id = ?`, ownerID, state, now, page)
}

func (db *DB) listBookings(
	ctx context.Context,
	scope string,
	scopeID int64,
	state models.BookingState,
	now time.Time,
	page models.Page,
) ([]*models.Booking, error) {
	clause, stateArgs, err := stateClause(state, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	limit, limitArgs := pageClause(page)

	query := `SELECT ` + bookingColumns + bookingFrom + ` WHERE ` + scope + clause +
		` ORDER BY b.start_date DESC, b.id DESC` + limit

	args := make([]interface{}, 0, 1+len(stateArgs)+len(limitArgs))
	args = append(args, scopeID)
	args = append(args, stateArgs...)
	args = append(args, limitArgs...)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// LastBookingEnd returns the latest end of an approved booking of the item that ended before now.
func (db *DB) LastBookingEnd(ctx context.Context, itemID int64, now time.Time) (*time.Time, error) {
	query := `SELECT MAX(end_date) FROM bookings WHERE item_id = ? AND status = ? AND end_date < ?`
	return db.queryOptionalTime(ctx, query, itemID, models.StatusApproved, formatTime(now))
}

// NextBookingStart returns the earliest start of an approved booking of the item that starts after now.
func (db *DB) NextBookingStart(ctx context.Context, itemID int64, now time.Time) (*time.Time, error) {
	query := `SELECT MIN(start_date) FROM bookings WHERE item_id = ? AND status = ? AND start_date > ?`
	return db.queryOptionalTime(ctx, query, itemID, models.StatusApproved, formatTime(now))
}

func (db *DB) queryOptionalTime(ctx context.Context, query string, args ...interface{}) (*time.Time, error) {
	var ts sql.NullString
	if err := db.QueryRowContext(ctx, query, args...).Scan(&ts); err != nil {
		return nil, fmt.Errorf("failed to get booking date: %w", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t, err := parseTime(ts.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CountCompletedBookings counts approved bookings of the item by the booker that ended before now.
func (db *DB) CountCompletedBookings(ctx context.Context, bookerID, itemID int64, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booker_id = ? AND item_id = ? AND status = ? AND end_date < ?`
	var count int
	err := db.QueryRowContext(ctx, query, bookerID, itemID, models.StatusApproved, formatTime(now)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed bookings: %w", err)
	}
	return count, nil
}
