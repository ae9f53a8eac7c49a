package models

import "time"

// ItemRequest is a user's request for an item that is not in the catalog yet.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Requester   User      `json:"requester"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}
