package models

import "time"

type Comment struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	ItemID  int64     `json:"item_id"`
	Author  User      `json:"author"`
	Created time.Time `json:"created"`
}
