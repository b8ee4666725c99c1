package cqrs

import "github.com/userdesk/user-service/shared/models"

type CreateUserCommand struct {
	Form models.UserForm
}

type UpdateUserCommand struct {
	UserID int64
	Form   models.UserForm
}

type DeleteUserCommand struct {
	UserID int64
}
