package dto

import (
	"time"

	"shareit/internal/models"
)

type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type RequestView struct {
	ID          int64      `json:"id"`
	Description string     `json:"description"`
	Created     time.Time  `json:"created"`
	Items       []ItemView `json:"items"`
}

func NewRequestView(r models.ItemRequest) RequestView {
	items := make([]ItemView, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, NewItemView(it))
	}
	return RequestView{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       items,
	}
}

func NewRequestViews(reqs []*models.ItemRequest) []RequestView {
	views := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, NewRequestView(*r))
	}
	return views
}
