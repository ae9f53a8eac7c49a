package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.Author.ID, formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.Created = now
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := `SELECT c.id, c.text, c.item_id, c.created,
                     u.id, u.name, u.email, u.created_at, u.updated_at
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ?
              ORDER BY c.created, c.id`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		var createdStr, authorCreatedStr, authorUpdatedStr string
		err := rows.Scan(
			&c.ID, &c.Text, &c.ItemID, &createdStr,
			&c.Author.ID, &c.Author.Name, &c.Author.Email, &authorCreatedStr, &authorUpdatedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if c.Created, err = parseTime(createdStr); err != nil {
			return nil, err
		}
		if c.Author.CreatedAt, err = parseTime(authorCreatedStr); err != nil {
			return nil, err
		}
		if c.Author.UpdatedAt, err = parseTime(authorUpdatedStr); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
