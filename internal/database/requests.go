package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const requestColumns = `r.id, r.description, r.created,
       u.id, u.name, u.email, u.created_at, u.updated_at`

const requestFrom = ` FROM requests r JOIN users u ON u.id = r.requester_id`

func scanRequest(row rowScanner) (*models.ItemRequest, error) {
	var req models.ItemRequest
	var createdStr, userCreatedStr, userUpdatedStr string
	err := row.Scan(
		&req.ID, &req.Description, &createdStr,
		&req.Requester.ID, &req.Requester.Name, &req.Requester.Email, &userCreatedStr, &userUpdatedStr,
	)
	if err != nil {
		return nil, err
	}
	if req.Created, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if req.Requester.CreatedAt, err = parseTime(userCreatedStr); err != nil {
		return nil, err
	}
	if req.Requester.UpdatedAt, err = parseTime(userUpdatedStr); err != nil {
		return nil, err
	}
	req.Items = []models.Item{}
	return &req, nil
}

func (db *DB) CreateRequest(ctx context.Context, req *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, req.Description, req.Requester.ID, formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	req.ID = id
	req.Created = now
	if req.Items == nil {
		req.Items = []models.Item{}
	}
	return nil
}

// GetRequest returns the request with its fulfilling items attached.
func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.id = ?`
	req, err := scanRequest(db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "request", id)
	}
	if err := db.attachItems(ctx, []*models.ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

func (db *DB) RequestExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM requests WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	return exists, nil
}

// GetRequestsByRequester lists the requester's own requests, newest first.
func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.requester_id = ? ORDER BY r.created DESC, r.id DESC`
	return db.queryRequests(ctx, query, requesterID)
}

// GetRequestsExcept lists everybody else's requests, newest first.
func (db *DB) GetRequestsExcept(ctx context.Context, requesterID int64, page models.Page) ([]*models.ItemRequest, error) {
	query := `SELECT ` + requestColumns + requestFrom + ` WHERE r.requester_id != ? ORDER BY r.created DESC, r.id DESC`
	limit, limitArgs := pageClause(page)
	args := append([]interface{}{requesterID}, limitArgs...)
	return db.queryRequests(ctx, query+limit, args...)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ItemRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}

	reqs := make([]*models.ItemRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the only connection before the follow-up item query.
	rows.Close()

	if err := db.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (db *DB) attachItems(ctx context.Context, reqs []*models.ItemRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(reqs))
	byID := make(map[int64]*models.ItemRequest, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}
	items, err := db.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, it := range items {
		if r, ok := byID[*it.RequestID]; ok {
			r.Items = append(r.Items, *it)
		}
	}
	return nil
}
