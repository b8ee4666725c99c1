// Package mapper translates between the form/view shapes and the persisted
// user record. All functions are pure.
package mapper

import "github.com/userdesk/user-service/shared/models"

// ToUser builds a new record from form input. ID and CreatedAt stay zero;
// the store assigns them.
func ToUser(form models.UserForm) *models.User {
	return &models.User{
		Name:  form.Name,
		Email: form.Email,
		Age:   form.Age,
	}
}

func ToView(u *models.User) *models.UserView {
	return &models.UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
	}
}

func ToViews(users []models.User) []models.UserView {
	views := make([]models.UserView, 0, len(users))
	for i := range users {
		views = append(views, *ToView(&users[i]))
	}
	return views
}

// ApplyUpdate overwrites name, email and age on an existing record.
func ApplyUpdate(form models.UserForm, u *models.User) {
	u.Name = form.Name
	u.Email = form.Email
	u.Age = form.Age
}
