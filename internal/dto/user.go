package dto

import "shareit/internal/models"

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is a partial update; absent and blank fields are left unchanged.
type UpdateUserRequest struct {
	Name  models.Optional[string] `json:"name"`
	Email models.Optional[string] `json:"email"`
}

func (r UpdateUserRequest) Patch() models.UserPatch {
	return models.UserPatch{Name: r.Name, Email: r.Email}
}

type UserView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func NewUserView(u models.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func NewUserViews(users []*models.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(*u))
	}
	return views
}
