package models

import "time"

// User is the persisted row of the users table.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserView is the external-facing projection of a user. ID and CreatedAt are
// assigned by the store and never taken from client input.
type UserView struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserForm is the form-encoded input accepted by the create and update pages.
type UserForm struct {
	Name  string `form:"name" validate:"required,max=255"`
	Email string `form:"email" validate:"required,email,max=255"`
	Age   int    `form:"age" validate:"gte=0,lte=150"`
}
