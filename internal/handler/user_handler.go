package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/userdesk/user-service/shared/cqrs"
	"github.com/userdesk/user-service/shared/middleware"
	"github.com/userdesk/user-service/shared/models"
)

const usersPath = "/users"

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	CreateUser(context.Context, cqrs.CreateUserCommand) (*models.UserView, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

// UserQuerier defines the read-side operations used by UserHandler.
type UserQuerier interface {
	ListUsers(context.Context, cqrs.ListUsersQuery) ([]models.UserView, error)
	GetUser(context.Context, cqrs.GetUserQuery) (*models.UserView, error)
}

// UserNotifier is invoked after a create or delete has committed.
type UserNotifier interface {
	PublishCreated(email string)
	PublishDeleted(email string)
}

// UserHandler serves the HTML user pages. Every mutating route ends in a
// redirect to the list with a success or error flash.
type UserHandler struct {
	commands UserCommander
	queries  UserQuerier
	notifier UserNotifier
	log      *slog.Logger
}

func NewUserHandler(commands UserCommander, queries UserQuerier, notifier UserNotifier, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{commands: commands, queries: queries, notifier: notifier, log: log}
}

// RegisterRoutes mounts the user pages on r.
func (h *UserHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, usersPath) })

	users := r.Group(usersPath)
	{
		users.GET("", h.ListUsers)
		users.GET("/new", h.ShowCreateForm)
		users.POST("", h.CreateUser)
		users.GET("/:id/update", h.ShowEditForm)
		users.POST("/:id", h.UpdateUser)
		users.POST("/:id/delete", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	h.log.Info("request for all users")
	users, err := h.queries.ListUsers(c.Request.Context(), cqrs.ListUsersQuery{})
	if err != nil {
		h.log.Error("failed to list users", "error", err)
		c.HTML(http.StatusInternalServerError, "users/error", gin.H{"Message": err.Error()})
		return
	}

	success, failure := popFlash(c)
	c.HTML(http.StatusOK, "users/list", gin.H{
		"Users":          users,
		"SuccessMessage": success,
		"ErrorMessage":   failure,
	})
}

func (h *UserHandler) ShowCreateForm(c *gin.Context) {
	h.log.Info("request for user create form")
	c.HTML(http.StatusOK, "users/create", gin.H{"Form": models.UserForm{}})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	form, err := bindUserForm(c)
	if err != nil {
		h.fail(c, "create", 0, err)
		return
	}

	view, err := h.commands.CreateUser(c.Request.Context(), cqrs.CreateUserCommand{Form: form})
	if err != nil {
		h.fail(c, "create", 0, err)
		return
	}

	h.log.Info("user created", "user_id", view.ID)
	redirectWithFlash(c, successFlashCookie, "User created successfully")
	h.notifier.PublishCreated(view.Email)
}

// ShowEditForm redirects with an error flash when the user is missing, the
// same way the mutating routes report failures.
func (h *UserHandler) ShowEditForm(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		h.fail(c, "edit", 0, err)
		return
	}
	h.log.Info("request for user edit form", "user_id", id)

	view, err := h.queries.GetUser(c.Request.Context(), cqrs.GetUserQuery{UserID: id})
	if err != nil {
		h.fail(c, "edit", id, err)
		return
	}

	c.HTML(http.StatusOK, "users/update", gin.H{"User": view})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		h.fail(c, "update", 0, err)
		return
	}
	form, err := bindUserForm(c)
	if err != nil {
		h.fail(c, "update", id, err)
		return
	}

	if _, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{UserID: id, Form: form}); err != nil {
		h.fail(c, "update", id, err)
		return
	}

	h.log.Info("user updated", "user_id", id)
	redirectWithFlash(c, successFlashCookie, "User updated successfully")
}

// DeleteUser reads the email from the store before deleting so the
// notification carries the committed address.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		h.fail(c, "delete", 0, err)
		return
	}
	ctx := c.Request.Context()

	view, err := h.queries.GetUser(ctx, cqrs.GetUserQuery{UserID: id, BypassCache: true})
	if err != nil {
		h.fail(c, "delete", id, err)
		return
	}
	if err := h.commands.DeleteUser(ctx, cqrs.DeleteUserCommand{UserID: id}); err != nil {
		h.fail(c, "delete", id, err)
		return
	}

	h.log.Info("user deleted", "user_id", id)
	redirectWithFlash(c, successFlashCookie, "User deleted successfully")
	h.notifier.PublishDeleted(view.Email)
}

func (h *UserHandler) fail(c *gin.Context, op string, id int64, err error) {
	h.log.Error("user request failed", "op", op, "user_id", id, "error", err)
	redirectWithFlash(c, errorFlashCookie, err.Error())
}

func parseUserID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id: %s", raw)
	}
	return id, nil
}

func bindUserForm(c *gin.Context) (models.UserForm, error) {
	var form models.UserForm
	if err := c.ShouldBind(&form); err != nil {
		return form, fmt.Errorf("invalid user data: %w", err)
	}
	if validationErrors := middleware.ValidateRequest(form); validationErrors != nil {
		return form, errors.New(middleware.ValidationMessage(validationErrors))
	}
	return form, nil
}
