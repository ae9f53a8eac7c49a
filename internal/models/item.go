package models

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Available   bool      `json:"available"`
	Owner       User      `json:"owner"`
	RequestID   *int64    `json:"request_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch carries a partial item update. Blank strings mean "no change";
// Available is applied whenever it is present.
type ItemPatch struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
	Available   Optional[bool]   `json:"available"`
}
